// Package pipeline provides a lazy, pull-based stream abstraction.
//
// A Pipeline is a factory for an Iterator; nothing runs until a terminal
// (Drain, Collect, ForEach) pulls values. Operators compose pipelines:
//
//	Map, MapResult            sequential transforms
//	Parallel, ParallelResult  n workers, output order not preserved
//	Interleave                bounded concurrent flattening of sub-streams
//	IgnoreErrors              drop failed Results, optionally observing them
//	Batch                     fixed-size groups, last group may be short
//
// Errors returned from Iterator.Next are fatal and stop the pipeline.
// Per-element failures that should not stop it travel as Result values.
package pipeline
