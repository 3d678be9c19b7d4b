// Package config defines the format-agnostic description of a render graph:
// queues, passes and the subresources each pass reads and writes, along with
// the Loader interface implemented by the HCL and YAML front ends.
//
// A config.Model carries no compiler state. The application declares it into
// a passgraph.Compiler and builds the plan from there.
package config
