package search

import "github.com/Borislavv/go-tinymt/model"

// The records at position 0. They are fixed rather than searched so that
// default-seeded generators stay reproducible across versions.
var (
	Default32 = model.Parameter{
		Characteristic: "d8524022ed8dff4a8dcc50c798faba43",
		Width:          model.Width32,
		ID:             0,
		Mat1:           0x8f7011ee,
		Mat2:           0xfc78ff1f,
		Tmat:           0x3793fdff,
		Weight:         63,
		Delta:          0,
	}
	Default64 = model.Parameter{
		Characteristic: "945e0ad4a30ec19432dfa9d5959e5d5d",
		Width:          model.Width64,
		ID:             0,
		Mat1:           0xfa051f40,
		Mat2:           0xffd0fff4,
		Tmat:           0x58d02ffeffbfffbc,
		Weight:         65,
		Delta:          0,
	}
)

// DefaultFor returns the position-0 record of the given width.
func DefaultFor(width int) (model.Parameter, bool) {
	switch width {
	case model.Width32:
		return Default32, true
	case model.Width64:
		return Default64, true
	default:
		return model.Parameter{}, false
	}
}
