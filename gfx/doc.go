// Package gfx is a small immediate-mode software pipeline for the handheld target.
//
// It mimics a fixed-function GPU: a current matrix per mode (projection, view,
// model) with push/pop stacks, a current draw color, a single bound texture, and a
// DrawMesh call that transforms, rasterizes, depth-tests and writes into a Target.
//
// Pipeline (fixed):
//
//	Mesh → Model/View/Projection → NDC → Rasterization (UV, color, depth) → Target.
//
// All state lives on an explicit Context; nothing is global. A Context is not safe
// for concurrent use.
package gfx
