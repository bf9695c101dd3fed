package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/pkg/errors"

	"github.com/dyike/ForecastGo/internal/models"
)

const dataURIPrefix = "data:image/png;base64,"

// Info describes one decoded chart image.
type Info struct {
	ID     models.ChartID
	Width  int
	Height int
	Bytes  int
}

// Decode returns the raw PNG bytes of an encoded chart.
func Decode(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decode chart payload")
	}
	return raw, nil
}

// DataURI renders the payload the way a browser image source expects it.
func DataURI(encoded string) string {
	return dataURIPrefix + encoded
}

// Inspect decodes a chart and reads its PNG header.
func Inspect(id models.ChartID, encoded string) (Info, error) {
	raw, err := Decode(encoded)
	if err != nil {
		return Info{}, errors.Wrapf(err, "chart %s", id)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Info{}, errors.Wrapf(err, "chart %s is not a PNG", id)
	}
	return Info{ID: id, Width: cfg.Width, Height: cfg.Height, Bytes: len(raw)}, nil
}

// InspectAll inspects every chart of a result in display order. Charts that
// fail to decode are reported in the error but do not stop the others.
func InspectAll(result *models.ForecastResult) ([]Info, error) {
	if result == nil {
		return nil, errors.New("no forecast result")
	}
	var (
		infos []Info
		bad   []string
	)
	for _, id := range models.AllCharts {
		info, err := Inspect(id, result.Charts.Get(id))
		if err != nil {
			bad = append(bad, err.Error())
			continue
		}
		infos = append(infos, info)
	}
	if len(bad) > 0 {
		return infos, fmt.Errorf("%d chart(s) unreadable: %v", len(bad), bad)
	}
	return infos, nil
}
