//go:build windows

// Package rtti resolves MSVC C++ run-time type information: given a
// loaded module and a mangled class name, it walks backward through the
// RTTI triple (TypeDescriptor in .data, CompleteObjectLocator in .rdata) to
// find every vtable belonging to that class, then scans the committed
// private heap in parallel to find a live instance. Ported from
// wincpp/src/modules/object.cpp and memory_factory.cpp's find_instance_of
// (original_source).
package rtti

import (
	"encoding/binary"

	"github.com/ogreworks/wincap/internal/werrors"
	"github.com/ogreworks/wincap/modules"
	"github.com/ogreworks/wincap/patterns"
	"github.com/ogreworks/wincap/winapi"
)

const pointerSize = 8

// TypeDescriptor mirrors the RTTI record MSVC places in .data ahead of a
// type's mangled name.
type TypeDescriptor struct {
	TypeInfoVtable uint64
	Spare          uint64
	MangledName    string
}

// CompleteObjectLocator mirrors the record in .rdata that immediately
// precedes a vtable. For x64 images the three trailing offsets are
// image-base-relative (RVA); signature must equal 1.
type CompleteObjectLocator struct {
	Signature              uint32
	Offset                 uint32
	CDOffset               uint32
	TypeDescriptorOffset   int32
	ClassDescriptorOffset  int32
	SelfOffset             int32
}

// Object is a resolved vtable: the module it belongs to, its address, and
// the CompleteObjectLocator that led to it.
type Object struct {
	Module        *modules.Module
	VtableAddress uintptr
	COL           CompleteObjectLocator
}

// Name reads the TypeDescriptor this object's COL points to and
// demangles its mangled name via the OS symbol-undecoration utility.
func (o Object) Name() (string, error) {
	td, err := readTypeDescriptor(o.Module, o.Module.Base()+uintptr(o.COL.TypeDescriptorOffset))
	if err != nil {
		return "", err
	}
	return winapi.UnDecorateSymbolName(td.MangledName)
}

// VtableAddr returns the cached vtable address.
func (o Object) VtableAddr() uintptr { return o.VtableAddress }

func readTypeDescriptor(m *modules.Module, address uintptr) (TypeDescriptor, error) {
	head, err := m.Read(address, 16)
	if err != nil {
		return TypeDescriptor{}, err
	}
	if len(head) < 16 {
		return TypeDescriptor{}, werrors.New(werrors.OsFailure, "rtti.readTypeDescriptor", "short read")
	}
	name, err := m.IO().ReadString(address + 16)
	if err != nil {
		return TypeDescriptor{}, err
	}
	return TypeDescriptor{
		TypeInfoVtable: binary.LittleEndian.Uint64(head[0:8]),
		Spare:          binary.LittleEndian.Uint64(head[8:16]),
		MangledName:    name,
	}, nil
}

func readCompleteObjectLocator(m *modules.Module, address uintptr) (CompleteObjectLocator, error) {
	buf, err := m.Read(address, 24)
	if err != nil {
		return CompleteObjectLocator{}, err
	}
	if len(buf) < 24 {
		return CompleteObjectLocator{}, werrors.New(werrors.OsFailure, "rtti.readCompleteObjectLocator", "short read")
	}
	return CompleteObjectLocator{
		Signature:             binary.LittleEndian.Uint32(buf[0:4]),
		Offset:                binary.LittleEndian.Uint32(buf[4:8]),
		CDOffset:               binary.LittleEndian.Uint32(buf[8:12]),
		TypeDescriptorOffset:  int32(binary.LittleEndian.Uint32(buf[12:16])),
		ClassDescriptorOffset: int32(binary.LittleEndian.Uint32(buf[16:20])),
		SelfOffset:            int32(binary.LittleEndian.Uint32(buf[20:24])),
	}, nil
}

// FetchObjects resolves every vtable in module whose RTTI mangled name
// equals mangledName. Returns an empty, non-error result if the module has
// no .data or .rdata section.
func FetchObjects(module *modules.Module, mangledName string) ([]Object, error) {
	dataSection, err := module.FetchSection(".data")
	if err != nil {
		return nil, nil
	}
	rdataSection, err := module.FetchSection(".rdata")
	if err != nil {
		return nil, nil
	}

	dataBuf, err := dataSection.ReadAll()
	if err != nil {
		return nil, err
	}
	rdataBuf, err := rdataSection.ReadAll()
	if err != nil {
		return nil, err
	}

	namePattern := patterns.FromBytes([]byte(mangledName))
	nameHits := patterns.NewScanner(dataBuf).FindAll(namePattern, patterns.BoyerMooreHorspool)

	var objects []Object
	for _, nameHit := range nameHits {
		hitAddr := dataSection.Base() + uintptr(nameHit)
		tdAddr := hitAddr - 2*pointerSize
		tdRVA := int32(int64(tdAddr) - int64(module.Base()))

		rvaBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(rvaBytes, uint32(tdRVA))
		rvaPattern := patterns.FromBytes(rvaBytes)

		for _, rdataHit := range patterns.NewScanner(rdataBuf).FindAll(rvaPattern, patterns.BoyerMooreHorspool) {
			colFieldAddr := rdataSection.Base() + uintptr(rdataHit)
			colAddr := colFieldAddr - 3*4

			col, err := readCompleteObjectLocator(module, colAddr)
			if err != nil {
				continue
			}
			if col.Signature != 1 {
				continue
			}

			colAddrBytes := make([]byte, 8)
			binary.LittleEndian.PutUint64(colAddrBytes, uint64(colAddr))
			colAddrPattern := patterns.FromBytes(colAddrBytes)

			for _, vtableRefHit := range patterns.NewScanner(rdataBuf).FindAll(colAddrPattern, patterns.BoyerMooreHorspool) {
				refAddr := rdataSection.Base() + uintptr(vtableRefHit)
				vtableAddr := refAddr + pointerSize
				objects = append(objects, Object{Module: module, VtableAddress: vtableAddr, COL: col})
			}
		}
	}
	return objects, nil
}
