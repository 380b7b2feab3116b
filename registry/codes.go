// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package registry implements the definition tables (operations,
// properties, events, responses and their codecs) that back a PTP
// camera class, plus the generic/vendor override composition model.
package registry

import "fmt"

// CodeSpace classifies a 16-bit container code by the partition it
// falls in, per §3 "Identifiers and primitive types".
type CodeSpace uint8

// CodeSpace values.
const (
	SpaceUnknown CodeSpace = iota
	SpaceStandardOperation
	SpaceVendorOperation
	SpaceStandardProperty
	SpaceVendorProperty
	SpaceStandardEvent
	SpaceVendorEvent
	SpaceResponse
)

func (s CodeSpace) String() string {
	switch s {
	case SpaceStandardOperation:
		return "StandardOperation"
	case SpaceVendorOperation:
		return "VendorOperation"
	case SpaceStandardProperty:
		return "StandardProperty"
	case SpaceVendorProperty:
		return "VendorProperty"
	case SpaceStandardEvent:
		return "StandardEvent"
	case SpaceVendorEvent:
		return "VendorEvent"
	case SpaceResponse:
		return "Response"
	default:
		return "Unknown"
	}
}

// ClassifyCode returns which partition a 16-bit code falls into. The
// nibble ranges are fixed by the PTP standard: operations 0x1xxx
// (standard) / 0x9xxx (vendor), properties 0x5xxx / 0xDxxx, events
// 0x4xxx / 0xCxxx, responses 0x2xxx.
func ClassifyCode(code uint16) CodeSpace {
	switch code & 0xF000 {
	case 0x1000:
		return SpaceStandardOperation
	case 0x9000:
		return SpaceVendorOperation
	case 0x5000:
		return SpaceStandardProperty
	case 0xD000:
		return SpaceVendorProperty
	case 0x4000:
		return SpaceStandardEvent
	case 0xC000:
		return SpaceVendorEvent
	case 0x2000:
		return SpaceResponse
	default:
		return SpaceUnknown
	}
}

// DataDirection classifies which side, if any, sends a DATA container
// during an operation.
type DataDirection uint8

// DataDirection values, per §3 "OperationDefinition".
const (
	// DirectionNone means the operation has no data phase.
	DirectionNone DataDirection = iota
	// DirectionIn means the host sends data to the device.
	DirectionIn
	// DirectionOut means the device sends data to the host.
	DirectionOut
)

func (d DataDirection) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "none"
	}
}

// Access classifies whether a property may be read, written, or both.
type Access uint8

// Access values.
const (
	AccessGet Access = iota
	AccessSet
	AccessGetSet
)

func (a Access) String() string {
	switch a {
	case AccessGet:
		return "Get"
	case AccessSet:
		return "Set"
	case AccessGetSet:
		return "GetSet"
	default:
		return fmt.Sprintf("Access(%d)", a)
	}
}

// CanRead reports whether a Get on this access level is permitted.
func (a Access) CanRead() bool { return a == AccessGet || a == AccessGetSet }

// CanWrite reports whether a Set on this access level is permitted.
func (a Access) CanWrite() bool { return a == AccessSet || a == AccessGetSet }

// standard response codes in the 0x2xxx space, §6 minimum set plus the
// SPEC_FULL §6 additions.
const (
	RC_OK                                uint16 = 0x2001
	RC_GeneralError                      uint16 = 0x2002
	RC_SessionNotOpen                    uint16 = 0x2003
	RC_InvalidTransactionID               uint16 = 0x2004
	RC_OperationNotSupported              uint16 = 0x2005
	RC_ParameterNotSupported               uint16 = 0x2006
	RC_IncompleteTransfer                  uint16 = 0x2007
	RC_InvalidStorageID                    uint16 = 0x2008
	RC_InvalidObjectHandle                 uint16 = 0x2009
	RC_DevicePropNotSupported               uint16 = 0x200A
	RC_InvalidObjectFormatCode               uint16 = 0x200B
	RC_StoreFull                            uint16 = 0x200C
	RC_StoreNotAvailable                    uint16 = 0x2013
	RC_SpecificationByFormatUnsupported     uint16 = 0x2014
	RC_DeviceBusy                           uint16 = 0x2019
	RC_InvalidParameter                     uint16 = 0x201D
	RC_SessionAlreadyOpen                   uint16 = 0x201E
	RC_TransactionCancelled                 uint16 = 0x201F
)
