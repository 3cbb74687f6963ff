// Package material defines the shared data model for the matc material
// compiler: shader models, target APIs and languages, runtime variants,
// material properties, and the interface-block descriptions that end up in
// the compiled artifact.
//
// The types here are plain values. They carry no behavior beyond
// enumeration helpers and the variant/property computations that both the
// compiler core and the code generator need.
package material
