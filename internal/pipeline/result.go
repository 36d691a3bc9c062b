package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ResultJSON is a serializable representation of an analysis result.
type ResultJSON struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Findings   []FindingJSON `json:"findings"`
	BloodCount int           `json:"blood_pixel_count"`
	BloodRatio float64       `json:"blood_ratio"`
	SampleType string        `json:"sample_type"`
	Content    ContentJSON   `json:"content"`
}

type FindingJSON struct {
	Box        BoxJSON `json:"box"`
	Profile    string  `json:"profile"`
	Severity   int     `json:"severity"`
	Display    string  `json:"display"`
	Shape      string  `json:"shape"`
	Hatch      string  `json:"hatch"`
	PixelCount int     `json:"pixel_count"`
}

type BoxJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type ContentJSON struct {
	UrineRatio float64 `json:"urine_ratio"`
	StoolRatio float64 `json:"stool_ratio"`
}

// ResultToJSON converts a result to indented JSON.
func ResultToJSON(res *Result) ([]byte, error) {
	if res == nil {
		return nil, errors.New("nil result")
	}
	out := ResultJSON{
		Width:      res.Width,
		Height:     res.Height,
		BloodCount: res.BloodPixelCount,
		BloodRatio: res.BloodRatio,
		SampleType: string(res.SampleType),
		Content: ContentJSON{
			UrineRatio: res.ContentTally.UrineRatio(),
			StoolRatio: res.ContentTally.StoolRatio(),
		},
	}
	out.Findings = make([]FindingJSON, 0, len(res.Findings))
	for _, f := range res.Findings {
		out.Findings = append(out.Findings, FindingJSON{
			Box: BoxJSON{
				X: int(f.Box.MinX),
				Y: int(f.Box.MinY),
				W: int(f.Box.Width()),
				H: int(f.Box.Height()),
			},
			Profile:    f.Profile.Name,
			Severity:   f.Profile.Severity,
			Display:    f.Profile.Display,
			Shape:      string(f.Profile.Shape),
			Hatch:      string(f.Profile.Hatch),
			PixelCount: f.PixelCount,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ResultToCSV renders findings as CSV, one row per finding.
func ResultToCSV(res *Result) ([]byte, error) {
	if res == nil {
		return nil, errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"profile", "severity", "x", "y", "width", "height", "pixel_count"}); err != nil {
		return nil, err
	}
	for _, f := range res.Findings {
		row := []string{
			f.Profile.Name,
			strconv.Itoa(f.Profile.Severity),
			strconv.Itoa(int(f.Box.MinX)),
			strconv.Itoa(int(f.Box.MinY)),
			strconv.Itoa(int(f.Box.Width())),
			strconv.Itoa(int(f.Box.Height())),
			strconv.Itoa(f.PixelCount),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResultFromJSON parses a serialized result.
func ResultFromJSON(data []byte) (ResultJSON, error) {
	var res ResultJSON
	err := json.Unmarshal(data, &res)
	return res, err
}

// ValidateFindings performs basic sanity checks against image dimensions.
func ValidateFindings(res *Result) error {
	if res == nil {
		return errors.New("nil result")
	}
	if res.Width <= 0 || res.Height <= 0 {
		return errors.New("invalid image dimensions for validation")
	}
	for i, f := range res.Findings {
		if f.Box.Width() <= 0 || f.Box.Height() <= 0 {
			return fmt.Errorf("finding %d has non-positive box size", i)
		}
		if f.Box.MinX < 0 || f.Box.MinY < 0 ||
			f.Box.MaxX > float64(res.Width) || f.Box.MaxY > float64(res.Height) {
			return fmt.Errorf("finding %d box out of bounds", i)
		}
		if f.PixelCount <= 0 {
			return fmt.Errorf("finding %d has no backing pixels", i)
		}
	}
	return nil
}
