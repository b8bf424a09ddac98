// Package ir provides the backend-neutral model representation consumed by
// the HLS declaration backend.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. The values here are produced by the
// upstream model compiler and treated as immutable inputs: conversion always
// builds new values and never mutates what it was given.
//
// Key design constraints:
//   - Precision is an open interface so dialect-tagged precisions can flow
//     through the same fields; backends reject kinds they do not recognise
//   - Composite types embed NamedType (they are structural supersets of it)
//   - len(TensorVariable.DimNames) == len(TensorVariable.Shape)
//   - All YAML/JSON tags use snake_case
package ir
