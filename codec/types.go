// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package codec

import "fmt"

// This file declares the Go-native shapes decoded from PTP's standard
// complex datasets (DeviceInfo, StorageInfo, ObjectInfo, property
// descriptors). Each converts to/from the map[string]any a Dataset
// codec produces, giving callers a typed view without requiring every
// registry (especially vendor ones with extra fields) to agree on one
// fixed struct.

// DeviceInfo is the dataset returned by GetDeviceInfo.
type DeviceInfo struct {
	StandardVersion        uint16
	VendorExtensionID      uint32
	VendorExtensionVersion uint16
	VendorExtensionDesc    string
	FunctionalMode         uint16
	OperationsSupported    []uint16
	EventsSupported        []uint16
	DevicePropertiesSupp   []uint16
	CaptureFormats         []uint16
	ImageFormats           []uint16
	Manufacturer           string
	Model                  string
	DeviceVersion          string
	SerialNumber           string
}

// DeviceInfoFromRecord converts a decoded dataset record into a typed
// DeviceInfo, tolerating absent optional fields (zero value).
func DeviceInfoFromRecord(rec map[string]any) DeviceInfo {
	return DeviceInfo{
		StandardVersion:        u16(rec["StandardVersion"]),
		VendorExtensionID:      u32(rec["VendorExtensionID"]),
		VendorExtensionVersion: u16(rec["VendorExtensionVersion"]),
		VendorExtensionDesc:    str(rec["VendorExtensionDesc"]),
		FunctionalMode:         u16(rec["FunctionalMode"]),
		OperationsSupported:    u16Slice(rec["OperationsSupported"]),
		EventsSupported:        u16Slice(rec["EventsSupported"]),
		DevicePropertiesSupp:   u16Slice(rec["DevicePropertiesSupported"]),
		CaptureFormats:         u16Slice(rec["CaptureFormats"]),
		ImageFormats:           u16Slice(rec["ImageFormats"]),
		Manufacturer:           str(rec["Manufacturer"]),
		Model:                  str(rec["Model"]),
		DeviceVersion:          str(rec["DeviceVersion"]),
		SerialNumber:           str(rec["SerialNumber"]),
	}
}

// StorageInfo is the dataset returned by GetStorageInfo.
type StorageInfo struct {
	StorageType        uint16
	FilesystemType     uint16
	AccessCapability   uint16
	MaxCapacity        uint64
	FreeSpaceInBytes   uint64
	FreeSpaceInImages  uint32
	StorageDescription string
	VolumeLabel        string
}

// StorageInfoFromRecord converts a decoded dataset record into a typed
// StorageInfo.
func StorageInfoFromRecord(rec map[string]any) StorageInfo {
	return StorageInfo{
		StorageType:        u16(rec["StorageType"]),
		FilesystemType:     u16(rec["FilesystemType"]),
		AccessCapability:   u16(rec["AccessCapability"]),
		MaxCapacity:        u64(rec["MaxCapacity"]),
		FreeSpaceInBytes:   u64(rec["FreeSpaceInBytes"]),
		FreeSpaceInImages:  u32(rec["FreeSpaceInImages"]),
		StorageDescription: str(rec["StorageDescription"]),
		VolumeLabel:        str(rec["VolumeLabel"]),
	}
}

// ObjectInfo is the dataset returned by GetObjectInfo.
type ObjectInfo struct {
	StorageID            uint32
	ObjectFormat         uint16
	ProtectionStatus     uint16
	ObjectCompressedSize uint32
	ThumbFormat          uint16
	ThumbCompressedSize  uint32
	ThumbPixWidth        uint32
	ThumbPixHeight       uint32
	ImagePixWidth        uint32
	ImagePixHeight       uint32
	ImageBitDepth        uint32
	ParentObject         uint32
	AssociationType      uint16
	AssociationDesc      uint32
	SequenceNumber       uint32
	Filename             string
	Keywords             string
}

// ObjectInfoFromRecord converts a decoded dataset record into a typed
// ObjectInfo.
func ObjectInfoFromRecord(rec map[string]any) ObjectInfo {
	return ObjectInfo{
		StorageID:            u32(rec["StorageID"]),
		ObjectFormat:         u16(rec["ObjectFormat"]),
		ProtectionStatus:     u16(rec["ProtectionStatus"]),
		ObjectCompressedSize: u32(rec["ObjectCompressedSize"]),
		ThumbFormat:          u16(rec["ThumbFormat"]),
		ThumbCompressedSize:  u32(rec["ThumbCompressedSize"]),
		ThumbPixWidth:        u32(rec["ThumbPixWidth"]),
		ThumbPixHeight:       u32(rec["ThumbPixHeight"]),
		ImagePixWidth:        u32(rec["ImagePixWidth"]),
		ImagePixHeight:       u32(rec["ImagePixHeight"]),
		ImageBitDepth:        u32(rec["ImageBitDepth"]),
		ParentObject:         u32(rec["ParentObject"]),
		AssociationType:      u16(rec["AssociationType"]),
		AssociationDesc:      u32(rec["AssociationDesc"]),
		SequenceNumber:       u32(rec["SequenceNumber"]),
		Filename:             str(rec["Filename"]),
		Keywords:             str(rec["Keywords"]),
	}
}

// PropDescForm is the form a PropertyDescriptor's constraint takes.
type PropDescForm uint8

// PropDescForm values.
const (
	PropDescFormNone PropDescForm = iota
	PropDescFormRange
	PropDescFormEnum
)

func (f PropDescForm) String() string {
	switch f {
	case PropDescFormRange:
		return "range"
	case PropDescFormEnum:
		return "enum"
	default:
		return "none"
	}
}

// PropertyDescriptor is the runtime value returned by the
// GetDevicePropDesc family: current/default value plus an optional
// range or enumeration constraint.
type PropertyDescriptor struct {
	Current        any
	Default        any
	Form           PropDescForm
	Min, Max, Step any
	AllowedValues  []any
}

func u16(v any) uint16 {
	switch n := v.(type) {
	case uint16:
		return n
	case uint32:
		return uint16(n)
	case Raw:
		return uint16(n.Value)
	default:
		return 0
	}
}

func u32(v any) uint32 {
	switch n := v.(type) {
	case uint32:
		return n
	case uint16:
		return uint32(n)
	case Raw:
		return uint32(n.Value)
	default:
		return 0
	}
}

func u64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case uint32:
		return uint64(n)
	case Raw:
		return n.Value
	default:
		return 0
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func u16Slice(v any) []uint16 {
	elems, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]uint16, 0, len(elems))
	for _, e := range elems {
		out = append(out, u16(e))
	}
	return out
}

// String renders a PropertyDescriptor for log records and debugging.
func (d PropertyDescriptor) String() string {
	switch d.Form {
	case PropDescFormRange:
		return fmt.Sprintf("PropDesc{current=%v, default=%v, range=[%v..%v step %v]}", d.Current, d.Default, d.Min, d.Max, d.Step)
	case PropDescFormEnum:
		return fmt.Sprintf("PropDesc{current=%v, default=%v, allowed=%v}", d.Current, d.Default, d.AllowedValues)
	default:
		return fmt.Sprintf("PropDesc{current=%v, default=%v}", d.Current, d.Default)
	}
}
