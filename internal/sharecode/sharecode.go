// Package sharecode turns venue ids into short opaque codes for share links
// (nightowl.to/v/<code>) so raw database ids never appear in URLs.
package sharecode

import (
	"fmt"

	hashids "github.com/speps/go-hashids/v2"
)

type Codec struct {
	h *hashids.HashID
}

func New(salt string) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 6
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(id int64) (string, error) {
	return c.h.EncodeInt64([]int64{id})
}

func (c *Codec) Decode(code string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("malformed share code")
	}
	return ids[0], nil
}
