// Package chunk implements the binary container format of compiled
// material artifacts: an ordered sequence of typed, length-tagged records,
// two content-addressed dictionaries (text lines and SPIR-V blobs), and
// the flattener that serializes everything into one contiguous buffer.
//
// Emission order is part of the wire format. Readers locate chunks by
// their type tag, but chunks that reference a dictionary by positional
// index require the dictionary chunk to appear earlier in the stream.
// The container never reorders; callers append in dependency order.
package chunk
