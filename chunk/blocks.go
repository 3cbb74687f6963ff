package chunk

import "github.com/gogpu/matc/material"

// BlockBindingsChunk serializes a uniform-block binding table: a uint8
// count followed by (NUL-terminated name, uint8 binding) pairs.
type BlockBindingsChunk struct {
	bindings []material.BlockBinding
}

// NewBlockBindingsChunk wraps a binding table for emission.
func NewBlockBindingsChunk(bindings []material.BlockBinding) *BlockBindingsChunk {
	return &BlockBindingsChunk{bindings: bindings}
}

// Flatten implements Payload.
func (c *BlockBindingsChunk) Flatten(f *Flattener) {
	f.WriteUint8(uint8(len(c.bindings)))
	for _, b := range c.bindings {
		f.WriteString(b.Name)
		f.WriteUint8(b.Binding)
	}
}

// SamplerBindingsChunk serializes the material's sampler binding
// assignments, in slot order.
type SamplerBindingsChunk struct {
	bindings []material.SamplerBinding
}

// NewSamplerBindingsChunk wraps sampler bindings for emission.
func NewSamplerBindingsChunk(bindings []material.SamplerBinding) *SamplerBindingsChunk {
	return &SamplerBindingsChunk{bindings: bindings}
}

// Flatten implements Payload.
func (c *SamplerBindingsChunk) Flatten(f *Flattener) {
	f.WriteUint8(uint8(len(c.bindings)))
	for _, b := range c.bindings {
		f.WriteString(b.Name)
		f.WriteUint8(b.Binding)
	}
}

// UniformBlockChunk serializes the user parameter uniform block.
type UniformBlockChunk struct {
	block material.UniformBlock
}

// NewUniformBlockChunk wraps a uniform block for emission.
func NewUniformBlockChunk(block material.UniformBlock) *UniformBlockChunk {
	return &UniformBlockChunk{block: block}
}

// Flatten implements Payload.
func (c *UniformBlockChunk) Flatten(f *Flattener) {
	f.WriteString(c.block.Name)
	f.WriteUint8(uint8(len(c.block.Fields)))
	for _, field := range c.block.Fields {
		f.WriteString(field.Name)
		f.WriteUint32(field.ArraySize)
		f.WriteUint8(uint8(field.Type))
		f.WriteUint8(uint8(field.Precision))
	}
}

// SamplerBlockChunk serializes the user sampler interface block.
type SamplerBlockChunk struct {
	block material.SamplerBlock
}

// NewSamplerBlockChunk wraps a sampler block for emission.
func NewSamplerBlockChunk(block material.SamplerBlock) *SamplerBlockChunk {
	return &SamplerBlockChunk{block: block}
}

// Flatten implements Payload.
func (c *SamplerBlockChunk) Flatten(f *Flattener) {
	f.WriteString(c.block.Name)
	f.WriteUint8(uint8(len(c.block.Samplers)))
	for _, s := range c.block.Samplers {
		f.WriteString(s.Name)
		f.WriteUint8(uint8(s.Type))
		f.WriteUint8(uint8(s.Format))
		f.WriteUint8(uint8(s.Precision))
	}
}

// SubpassBlockChunk serializes the user subpass input, or a single zero
// byte when the material declares none.
type SubpassBlockChunk struct {
	subpass material.Subpass
}

// NewSubpassBlockChunk wraps the subpass description for emission.
func NewSubpassBlockChunk(subpass material.Subpass) *SubpassBlockChunk {
	return &SubpassBlockChunk{subpass: subpass}
}

// Flatten implements Payload.
func (c *SubpassBlockChunk) Flatten(f *Flattener) {
	f.WriteBool(c.subpass.Valid)
	if !c.subpass.Valid {
		return
	}
	f.WriteString(c.subpass.Block)
	f.WriteString(c.subpass.Name)
	f.WriteUint8(uint8(c.subpass.Format))
	f.WriteUint8(uint8(c.subpass.Precision))
	f.WriteUint8(c.subpass.Attachment)
	f.WriteUint8(c.subpass.Binding)
}
