// Package rig is a programmable cursor-motion engine: a fluent builder
// describes how the mouse should move (set an absolute position, nudge
// by a delta, hold a velocity, rotate the heading, layer a temporary
// boost, snap back), and a per-frame evaluator composes every active
// command into a stream of integer move_absolute/move_relative calls
// on a pluggable backend.Backend.
//
// A command is built with NewBuilder, chained through property, mode,
// operator, timing, and behavior calls, and committed with an explicit
// Commit call; no other method commits. Commit resolves the command into
// an ActiveBuilder and admits it into a LayerGroup according to the
// chosen Behavior. Every tick, State.Tick advances every group's
// builders, composes base state with every layer in ascending Order,
// integrates velocity with sub-pixel precision, and emits at most one
// move_absolute or move_relative call to the resolved backend.Backend.
//
// This package owns the mutually-referential live state the spec calls
// for -- Builder, BuilderConfig, ActiveBuilder, LayerGroup, and State
// all hold direct (non-owning, where so noted) pointers to each other
// -- mirroring how the teacher repository keeps Renderer, Drawable,
// Light, Material, and Skin in one `engine` package rather than
// splitting them across packages that would need public accessors for
// every private field.
package rig
