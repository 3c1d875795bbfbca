package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/parquet-go/parquet-go"
)

var parquetMagic = []byte("PAR1")

// Column aliases, lower case. The first present column wins.
var (
	colID       = []string{"id", "objectid"}
	colLine1    = []string{"address_line_1", "street", "address", "addrfull"}
	colLine2    = []string{"address_line_2"}
	colCity     = []string{"city", "placename"}
	colCounty   = []string{"county"}
	colZip      = []string{"zipcode", "zip"}
	colLat      = []string{"latitude", "lat"}
	colLon      = []string{"longitude", "lon", "lng"}
	colLocation = []string{"location", "geom", "geometry"}
)

// nullMarker is how the composite address export spells a missing value.
const nullMarker = "<Null>"

// record is one snapshot row keyed by lower-cased column name.
type record struct {
	fields   map[string]string
	location []byte
}

func (r record) get(names []string) string {
	for _, n := range names {
		if v, ok := r.fields[n]; ok {
			v = strings.TrimSpace(v)
			if v == nullMarker {
				return ""
			}
			return v
		}
	}
	return ""
}

func (r record) has(names []string) bool {
	for _, n := range names {
		if _, ok := r.fields[n]; ok {
			return true
		}
	}
	return false
}

// ParseAddresses reads an address snapshot in Parquet (detected by its magic
// bytes) or CSV with a header row. Rows without an id or a usable location are
// skipped and reported.
func ParseAddresses(data []byte) ([]models.Address, []*RecordError, error) {
	if bytes.HasPrefix(data, parquetMagic) {
		return parseParquetAddresses(bytes.NewReader(data), int64(len(data)))
	}
	return parseCSVAddresses(bytes.NewReader(data))
}

func parseCSVAddresses(r io.Reader) ([]models.Address, []*RecordError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var (
		addresses []models.Address
		skipped   []*RecordError
	)
	for index := 0; ; index++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, &RecordError{Index: index, Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read record: %w", err)
		}

		rec := record{fields: make(map[string]string, len(columns))}
		for i, v := range row {
			if i < len(columns) {
				rec.fields[columns[i]] = v
			}
		}

		a, err := rec.address()
		if err != nil {
			skipped = append(skipped, &RecordError{Index: index, ID: rec.get(colID), Err: err})
			continue
		}
		addresses = append(addresses, a)
	}
	return addresses, skipped, nil
}

func parseParquetAddresses(r io.ReaderAt, size int64) ([]models.Address, []*RecordError, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	schema := f.Schema()
	names := map[int]string{}
	for _, field := range schema.Fields() {
		name := strings.ToLower(field.Name())
		if col, ok := schema.Lookup(field.Name()); ok {
			names[col.ColumnIndex] = name
		}
	}

	locationColumn := -1
	for _, n := range colLocation {
		if col, ok := lookupFold(schema, n); ok {
			locationColumn = col
			break
		}
	}

	reader := parquet.NewReader(f)
	defer reader.Close()

	var (
		addresses []models.Address
		skipped   []*RecordError
		index     int
	)
	rows := make([]parquet.Row, 256)
	for {
		n, err := reader.ReadRows(rows)
		for _, row := range rows[:n] {
			rec := record{fields: make(map[string]string, len(names))}
			for _, v := range row {
				if v.IsNull() {
					continue
				}
				if v.Column() == locationColumn {
					rec.location = append([]byte(nil), v.ByteArray()...)
					continue
				}
				if name, ok := names[v.Column()]; ok {
					rec.fields[name] = valueString(v)
				}
			}

			a, aerr := rec.address()
			if aerr != nil {
				skipped = append(skipped, &RecordError{Index: index, ID: rec.get(colID), Err: aerr})
			} else {
				addresses = append(addresses, a)
			}
			index++
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return addresses, skipped, nil
}

func lookupFold(schema *parquet.Schema, name string) (int, bool) {
	for _, field := range schema.Fields() {
		if strings.EqualFold(field.Name(), name) {
			if col, ok := schema.Lookup(field.Name()); ok {
				return col.ColumnIndex, true
			}
		}
	}
	return -1, false
}

func valueString(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}
	return v.String()
}

// address converts a snapshot row, composing line 1 and 2 from address
// components when the row carries no ready-made street line.
func (r record) address() (models.Address, error) {
	id, err := strconv.ParseInt(r.get(colID), 10, 64)
	if err != nil {
		return models.Address{}, fmt.Errorf("invalid id %q", r.get(colID))
	}

	p, err := r.point()
	if err != nil {
		return models.Address{}, err
	}

	line1, line2 := r.get(colLine1), r.get(colLine2)
	if line1 == "" && r.has([]string{"streetname"}) {
		line1, line2 = r.composeLines()
	}

	return models.Address{
		ID:           id,
		AddressLine1: models.NormalizeText(line1),
		AddressLine2: models.NormalizeText(line2),
		City:         models.NormalizeText(r.get(colCity)),
		County:       models.NormalizeText(r.get(colCounty)),
		Zipcode:      models.NormalizeText(r.get(colZip)),
		Latitude:     p.Lat(),
		Longitude:    p.Lon(),
	}, nil
}

func (r record) point() (orb.Point, error) {
	if len(r.location) > 0 {
		g, err := wkb.Unmarshal(r.location)
		if err != nil {
			return orb.Point{}, fmt.Errorf("invalid location: %w", err)
		}
		p, ok := g.(orb.Point)
		if !ok {
			return orb.Point{}, fmt.Errorf("location is a %s, not a point", g.GeoJSONType())
		}
		if !geo.ValidPoint(p) {
			return orb.Point{}, fmt.Errorf("location %v out of range", p)
		}
		return p, nil
	}

	lat, err := strconv.ParseFloat(r.get(colLat), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid latitude %q", r.get(colLat))
	}
	lon, err := strconv.ParseFloat(r.get(colLon), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid longitude %q", r.get(colLon))
	}
	p := geo.LatLon(lat, lon)
	if !geo.ValidPoint(p) {
		return orb.Point{}, fmt.Errorf("location %v out of range", p)
	}
	return p, nil
}

// composeLines builds USPS-style lines from NENA address components.
func (r record) composeLines() (string, string) {
	var line1 []string
	for _, col := range []string{
		"addrnum", "numsuf",
		"st_premod", "predir", "pretype", "st_presep",
		"streetname",
		"posttype", "postdir", "st_posmod",
	} {
		if v := r.get([]string{col}); v != "" {
			line1 = append(line1, v)
		}
	}

	var line2 []string
	for _, unit := range []struct{ col, prefix string }{
		{"building", "BLDG"},
		{"floor", "FL"},
		{"unit", "UNIT"},
	} {
		if v := r.get([]string{unit.col}); v != "" {
			line2 = append(line2, unit.prefix+" "+v)
		}
	}
	return strings.Join(line1, " "), strings.Join(line2, " ")
}
