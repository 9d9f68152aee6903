// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package message

// Message represents one decoded line emitted by a source, with its metadata
type Message interface {
	Content() []byte
	SetContent([]byte)
	GetOrigin() *Origin
	SetOrigin(*Origin)
}

// Origin identifies the source a message comes from
type Origin struct {
	// Identifier is the tailed file path
	Identifier string
}

type message struct {
	content []byte
	Origin  *Origin
}

// Content returns the content of the message, the decoded line itself
func (m *message) Content() []byte {
	return m.content
}

// SetContent updates the content of the message
func (m *message) SetContent(content []byte) {
	m.content = content
}

// GetOrigin returns the Origin from which the message comes
func (m *message) GetOrigin() *Origin {
	return m.Origin
}

// SetOrigin sets the source from which the message comes
func (m *message) SetOrigin(Origin *Origin) {
	m.Origin = Origin
}

// NewMessage returns a new message
func NewMessage(content []byte) *message {
	return &message{
		content: content,
	}
}

// NewOrigin returns a new Origin
func NewOrigin() *Origin {
	return &Origin{}
}
