// Package glsl provides embedded GLSL shader sources.
package glsl

import _ "embed"

// SolidColorVertexShader is the vertex shader for unlit flat-color
// rendering, plots and picking.
//
//go:embed solidcolor.vert
var SolidColorVertexShader string

// SolidColorFragmentShader is the fragment shader for unlit flat-color
// rendering, plots and picking.
//
//go:embed solidcolor.frag
var SolidColorFragmentShader string

// MinimumLightingVertexShader is the vertex shader for diffuse-only
// lighting.
//
//go:embed minimumlighting.vert
var MinimumLightingVertexShader string

// MinimumLightingFragmentShader is the fragment shader for
// diffuse-only lighting.
//
//go:embed minimumlighting.frag
var MinimumLightingFragmentShader string

// PhongShadowVertexShader is the vertex shader for full Phong lighting
// with shadow mapping.
//
//go:embed phongshadow.vert
var PhongShadowVertexShader string

// PhongShadowFragmentShader is the fragment shader for full Phong
// lighting with shadow mapping.
//
//go:embed phongshadow.frag
var PhongShadowFragmentShader string

// ShadowMapVertexShader is the vertex shader for depth-only shadow map
// generation.
//
//go:embed shadowmap.vert
var ShadowMapVertexShader string

// ShadowMapFragmentShader is the fragment shader for depth-only shadow
// map generation.
//
//go:embed shadowmap.frag
var ShadowMapFragmentShader string
