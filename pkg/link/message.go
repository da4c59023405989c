// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package link

import (
	"fmt"

	"github.com/Thermoquad/stencil/pkg/wire"
)

// Kind identifies what a Message carries. It is the first word of every frame.
type Kind uint8

const (
	KindCommand  Kind = 0x00
	KindResponse Kind = 0x01
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindResponse:
		return "response"
	default:
		return fmt.Sprintf("kind(0x%02X)", uint8(k))
	}
}

// Status is the outcome reported in a response.
type Status uint8

const (
	StatusOK       Status = 0x00
	StatusRejected Status = 0x01
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(0x%02X)", uint8(s))
	}
}

// Message is one transaction on the link: either a command carrying a payload
// of type P or a response carrying a status.
//
//	command:  [0x00][P...]
//	response: [0x01][status]
type Message[P any, PP wire.Codec[P]] struct {
	Kind    Kind
	Command P
	Status  Status
}

// NewCommand wraps cmd in a command message.
func NewCommand[P any, PP wire.Codec[P]](cmd P) Message[P, PP] {
	return Message[P, PP]{Kind: KindCommand, Command: cmd}
}

// NewResponse returns a response message.
func NewResponse[P any, PP wire.Codec[P]](status Status) Message[P, PP] {
	return Message[P, PP]{Kind: KindResponse, Status: status}
}

func (m *Message[P, PP]) Encode(dst wire.Sink) error {
	switch m.Kind {
	case KindCommand:
		if err := wire.PutUint8(dst, uint8(m.Kind)); err != nil {
			return err
		}
		return PP(&m.Command).Encode(dst)
	case KindResponse:
		if err := wire.PutUint8(dst, uint8(m.Kind)); err != nil {
			return err
		}
		return wire.PutUint8(dst, uint8(m.Status))
	default:
		return wire.ErrInvalid
	}
}

func (m *Message[P, PP]) Decode(src wire.Source) error {
	raw, err := wire.ReadUint8(src)
	if err != nil {
		return err
	}
	out := Message[P, PP]{Kind: Kind(raw)}
	switch out.Kind {
	case KindCommand:
		if err := PP(&out.Command).Decode(src); err != nil {
			return err
		}
	case KindResponse:
		status, err := wire.ReadUint8(src)
		if err != nil {
			return err
		}
		out.Status = Status(status)
		if out.Status != StatusOK && out.Status != StatusRejected {
			return wire.ErrInvalid
		}
	default:
		return wire.ErrInvalid
	}
	*m = out
	return nil
}
