// Package api defines the core data types shared by every part of veriflow
//
// This package contains the parameter model, the instruction catalog types,
// the evidence model, and the JSON wire messages exchanged with engines
package api
