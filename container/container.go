// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package container implements the bit-exact framing of the four PTP
// container types that flow across the bulk and interrupt endpoints:
// COMMAND, DATA, RESPONSE and EVENT.
package container

import (
	"encoding/binary"
	"fmt"
)

// Type identifies one of the four PTP container kinds. It lives at
// offset 4 of every container, which is how DATA and RESPONSE (both
// arriving on the bulk-IN endpoint) are told apart.
type Type uint16

// Container types, per the PTP container header.
const (
	TypeCommand  Type = 1
	TypeData     Type = 2
	TypeResponse Type = 3
	TypeEvent    Type = 4
)

func (t Type) String() string {
	switch t {
	case TypeCommand:
		return "COMMAND"
	case TypeData:
		return "DATA"
	case TypeResponse:
		return "RESPONSE"
	case TypeEvent:
		return "EVENT"
	default:
		return fmt.Sprintf("Type(0x%x)", uint16(t))
	}
}

// HeaderSize is the fixed 12-byte container header: length(4) +
// type(2) + code(2) + transaction_id(4).
const HeaderSize = 12

// MaxParams is the PTP hard limit of 32-bit parameter slots a COMMAND,
// RESPONSE or EVENT payload may carry.
const MaxParams = 5

// Container is one parsed PTP container: the 12-byte header plus its
// payload, already split out according to Type (parameters for
// COMMAND/RESPONSE/EVENT, raw bytes for DATA).
type Container struct {
	Length        uint32
	Type          Type
	Code          uint16
	TransactionID uint32
	// Params holds decoded u32 parameter slots for COMMAND, RESPONSE and
	// EVENT containers (nil for DATA).
	Params []uint32
	// Data holds the raw payload for a DATA container (nil otherwise).
	Data []byte
}

// ErrTooManyParams is returned building a COMMAND/RESPONSE/EVENT
// container with more than MaxParams parameters.
type ErrTooManyParams struct{ Count int }

func (e *ErrTooManyParams) Error() string {
	return fmt.Sprintf("container: %d parameters exceeds the %d-slot limit", e.Count, MaxParams)
}

// ErrShortHeader is returned parsing fewer than HeaderSize bytes.
type ErrShortHeader struct{ Got int }

func (e *ErrShortHeader) Error() string {
	return fmt.Sprintf("container: short header, got %d of %d bytes", e.Got, HeaderSize)
}

// ErrLengthMismatch is returned when a fully-buffered container's
// declared Length does not match the bytes actually delivered.
type ErrLengthMismatch struct {
	Declared, Got uint32
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("container: length mismatch, header declares %d, frame carried %d", e.Declared, e.Got)
}

// BuildCommand serializes a COMMAND container. params must have at
// most MaxParams entries (PTP's 5-slot hard limit).
func BuildCommand(code uint16, txnID uint32, params []uint32) ([]byte, error) {
	return buildParamContainer(TypeCommand, code, txnID, params)
}

// BuildResponse serializes a RESPONSE container.
func BuildResponse(code uint16, txnID uint32, params []uint32) ([]byte, error) {
	return buildParamContainer(TypeResponse, code, txnID, params)
}

// BuildEvent serializes an EVENT container, as delivered on the
// interrupt endpoint.
func BuildEvent(code uint16, txnID uint32, params []uint32) ([]byte, error) {
	return buildParamContainer(TypeEvent, code, txnID, params)
}

// BuildData serializes a DATA container carrying raw payload bytes
// (already codec-encoded by the caller).
func BuildData(code uint16, txnID uint32, payload []byte) []byte {
	total := HeaderSize + len(payload)
	b := make([]byte, total)
	binary.LittleEndian.PutUint32(b[0:], uint32(total))
	binary.LittleEndian.PutUint16(b[4:], uint16(TypeData))
	binary.LittleEndian.PutUint16(b[6:], code)
	binary.LittleEndian.PutUint32(b[8:], txnID)
	copy(b[HeaderSize:], payload)
	return b
}

func buildParamContainer(typ Type, code uint16, txnID uint32, params []uint32) ([]byte, error) {
	if len(params) > MaxParams {
		return nil, &ErrTooManyParams{Count: len(params)}
	}
	total := HeaderSize + len(params)*4
	b := make([]byte, total)
	binary.LittleEndian.PutUint32(b[0:], uint32(total))
	binary.LittleEndian.PutUint16(b[4:], uint16(typ))
	binary.LittleEndian.PutUint16(b[6:], code)
	binary.LittleEndian.PutUint32(b[8:], txnID)
	for i, p := range params {
		binary.LittleEndian.PutUint32(b[HeaderSize+i*4:], p)
	}
	return b, nil
}

// ParseHeader reads just the 12-byte header from b, returning the
// declared container Length so the caller (the transaction engine) can
// decide how many more bytes to read off the bulk-IN endpoint. Trailing
// bytes beyond Length are the caller's concern — some devices append
// padding, which the engine ignores once Length bytes are accounted
// for.
func ParseHeader(b []byte) (Container, error) {
	if len(b) < HeaderSize {
		return Container{}, &ErrShortHeader{Got: len(b)}
	}
	return Container{
		Length:        binary.LittleEndian.Uint32(b[0:]),
		Type:          Type(binary.LittleEndian.Uint16(b[4:])),
		Code:          binary.LittleEndian.Uint16(b[6:]),
		TransactionID: binary.LittleEndian.Uint32(b[8:]),
	}, nil
}

// Parse parses a fully-buffered container (header + payload already
// concatenated, with len(b) >= declared Length). It fails with
// ErrLengthMismatch if fewer than Length bytes are present; trailing
// bytes past Length are ignored (device padding), per §4.C.
func Parse(b []byte) (Container, error) {
	c, err := ParseHeader(b)
	if err != nil {
		return Container{}, err
	}
	if c.Length < HeaderSize {
		return Container{}, fmt.Errorf("container: declared length %d shorter than header", c.Length)
	}
	if uint32(len(b)) < c.Length {
		return Container{}, &ErrLengthMismatch{Declared: c.Length, Got: uint32(len(b))}
	}
	payload := b[HeaderSize:c.Length]
	switch c.Type {
	case TypeData:
		c.Data = payload
	case TypeCommand, TypeResponse, TypeEvent:
		n := len(payload) / 4
		if n > MaxParams {
			n = MaxParams
		}
		params := make([]uint32, n)
		for i := 0; i < n; i++ {
			params[i] = binary.LittleEndian.Uint32(payload[i*4:])
		}
		c.Params = params
	default:
		return Container{}, fmt.Errorf("container: unknown container type %d", c.Type)
	}
	return c, nil
}
