package labelraster

import (
	"fmt"
	"strconv"
	"strings"
)

// Model selects the printer command language for a whole job. The numeric
// values match the `cupsModelNumber` attribute of the printer's PPD.
type Model int

const (
	ZebraEPLLine   Model = 0x10
	ZebraEPLPage   Model = 0x11
	ZebraZPL       Model = 0x12
	ZebraCPCL      Model = 0x13
	IntellitechPCL Model = 0x20
	// ZebraEPCL is the P330i card printer. Its PPD uses model number 0, which
	// collides with other CUPS label drivers, so it gets its own range here.
	ZebraEPCL Model = 0x30
)

type modelInfo struct {
	name        string
	description string
}

var modelsByNumber = map[Model]modelInfo{
	ZebraEPLLine:   {"epl-line", "Zebra EPL, line mode"},
	ZebraEPLPage:   {"epl-page", "Zebra EPL, page mode"},
	ZebraZPL:       {"zpl", "Zebra ZPL II"},
	ZebraCPCL:      {"cpcl", "Zebra CPCL"},
	IntellitechPCL: {"intellitech-pcl", "Intellitech PCL"},
	ZebraEPCL:      {"epcl", "Zebra EPCL card printer (P330i)"},
}

// Models returns all supported models in ascending numeric order.
func Models() []Model {
	return []Model{
		ZebraEPLLine, ZebraEPLPage, ZebraZPL, ZebraCPCL, IntellitechPCL, ZebraEPCL,
	}
}

// Valid returns true if the model is one of the supported models.
func (m Model) Valid() bool {
	_, ok := modelsByNumber[m]
	return ok
}

// String returns the short name of the model, e.g. "zpl".
func (m Model) String() string {
	info, ok := modelsByNumber[m]
	if !ok {
		return fmt.Sprintf("Model(%#x)", int(m))
	}
	return info.name
}

// Description returns a human-readable description of the model.
func (m Model) Description() string {
	return modelsByNumber[m].description
}

// ModelFromNumber converts a `cupsModelNumber` value into a [Model]. Unknown
// values fail with [ErrConfiguration].
func ModelFromNumber(number int) (Model, error) {
	model := Model(number)
	if !model.Valid() {
		return 0, ErrConfiguration.WithMessage(
			fmt.Sprintf("no printer model with number %#x", number))
	}
	return model, nil
}

// ParseModel accepts either a model name (case-insensitive) or a model number
// in decimal or `0x`-prefixed hexadecimal.
func ParseModel(value string) (Model, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	for model, info := range modelsByNumber {
		if info.name == trimmed {
			return model, nil
		}
	}

	number, err := strconv.ParseInt(trimmed, 0, 32)
	if err != nil {
		return 0, ErrConfiguration.WithMessage(
			fmt.Sprintf("unrecognized printer model %q", value))
	}
	return ModelFromNumber(int(number))
}
