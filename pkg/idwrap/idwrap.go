// Package idwrap wraps ULIDs so every entity id in the flow model shares one
// comparable, sortable, sql-friendly type.
package idwrap

import (
	"database/sql/driver"
	"time"

	"github.com/oklog/ulid/v2"
)

type IDWrap struct {
	ulid ulid.ULID
}

func New(id ulid.ULID) IDWrap {
	return IDWrap{ulid: id}
}

func NewNow() IDWrap {
	return IDWrap{ulid: ulid.Make()}
}

func NewText(s string) (IDWrap, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return IDWrap{}, err
	}
	return IDWrap{ulid: id}, nil
}

func NewTextMust(s string) IDWrap {
	id, err := ulid.Parse(s)
	if err != nil {
		panic(err)
	}
	return IDWrap{ulid: id}
}

func NewFromBytes(data []byte) (IDWrap, error) {
	var id ulid.ULID
	err := id.UnmarshalBinary(data)
	return IDWrap{ulid: id}, err
}

func (u IDWrap) String() string {
	return u.ulid.String()
}

func (u IDWrap) Bytes() []byte {
	return u.ulid[:]
}

func (u IDWrap) Compare(other IDWrap) int {
	return u.ulid.Compare(other.ulid)
}

func (u IDWrap) IsZero() bool {
	return u.ulid == ulid.ULID{}
}

func (u IDWrap) Time() time.Time {
	return time.UnixMilli(int64(u.ulid.Time()))
}

func (u IDWrap) MarshalText() ([]byte, error) {
	return []byte(u.ulid.String()), nil
}

func (u *IDWrap) UnmarshalText(data []byte) error {
	id, err := ulid.Parse(string(data))
	if err != nil {
		return err
	}
	u.ulid = id
	return nil
}

// SQL driver value
func (u IDWrap) Value() (driver.Value, error) {
	return u.ulid.Value()
}

func (u *IDWrap) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return ulid.ErrDataSize
	}
	return u.ulid.UnmarshalBinary(b)
}
