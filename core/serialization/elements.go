// Copyright (c) 2017-2019 The mynt developers
package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/myntproject/mynt/common/hash"
)

var littleEndian = binary.LittleEndian

// Uint32Time represents a unix timestamp encoded with a uint32.  It is used as
// a way to signal the readElement function how to decode a timestamp into a Go
// time.Time since it is otherwise ambiguous.
type Uint32Time time.Time

// ReadElements reads multiple items from r.  It is equivalent to multiple
// calls to readElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := readElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// readElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func readElement(r io.Reader, element interface{}) error {
	// Attempt to read the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case *uint8:
		rv, err := BinarySerializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint16:
		rv, err := BinarySerializer.Uint16(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint32:
		rv, err := BinarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int32:
		rv, err := BinarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint64:
		rv, err := BinarySerializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := BinarySerializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	// Unix timestamp encoded as a uint32.
	case *Uint32Time:
		rv, err := BinarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = Uint32Time(time.Unix(int64(rv), 0))
		return nil

	case *hash.Hash:
		_, err := io.ReadFull(r, e[:])
		if err != nil {
			return err
		}
		return nil
	}

	return fmt.Errorf("unsupported element type %T", element)
}

// WriteElements writes multiple items to w.  It is equivalent to multiple
// calls to writeElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := writeElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes the little endian representation of element to w
// depending on its concrete type.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		return BinarySerializer.PutUint8(w, e)

	case uint16:
		return BinarySerializer.PutUint16(w, littleEndian, e)

	case uint32:
		return BinarySerializer.PutUint32(w, littleEndian, e)

	case int32:
		return BinarySerializer.PutUint32(w, littleEndian, uint32(e))

	case uint64:
		return BinarySerializer.PutUint64(w, littleEndian, e)

	case int64:
		return BinarySerializer.PutUint64(w, littleEndian, uint64(e))

	case *hash.Hash:
		_, err := w.Write(e[:])
		return err

	case hash.Hash:
		_, err := w.Write(e[:])
		return err
	}

	return fmt.Errorf("unsupported element type %T", element)
}
