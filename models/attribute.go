package models

import (
	"fmt"
	"strconv"
)

// AttributeRecord is one named fact pulled from a listing's embedded
// payload. Value holds whatever scalar the payload carried: string,
// JSON number or null.
type AttributeRecord struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

type Attribute string

const (
	AttrAddress              Attribute = "address"
	AttrCategoryID           Attribute = "category_id"
	AttrMonthlyRent          Attribute = "monthly_rent"
	AttrPropertyType         Attribute = "property_type"
	AttrState                Attribute = "state"
	AttrRegion               Attribute = "region"
	AttrRooms                Attribute = "rooms"
	AttrBathroom             Attribute = "bathroom"
	AttrSize                 Attribute = "size"
	AttrFurnished            Attribute = "furnished"
	AttrFacilities           Attribute = "facilities"
	AttrAdditionalFacilities Attribute = "additional_facilities"
	AttrLatitude             Attribute = "latitude"
	AttrLongitude            Attribute = "longitude"
	AttrPublishedDatetime    Attribute = "publishedDatetime"
	AttrScrapeDate           Attribute = "scrape_date"
	AttrAdsID                Attribute = "ads_id"
	AttrBody                 Attribute = "body"
)

// SchemaColumns is the closed set of output columns, in CSV order.
// A PropertyRow never carries anything outside this set.
var SchemaColumns = []Attribute{
	AttrAddress,
	AttrCategoryID,
	AttrMonthlyRent,
	AttrPropertyType,
	AttrState,
	AttrRegion,
	AttrRooms,
	AttrBathroom,
	AttrSize,
	AttrFurnished,
	AttrFacilities,
	AttrAdditionalFacilities,
	AttrLatitude,
	AttrLongitude,
	AttrPublishedDatetime,
	AttrScrapeDate,
	AttrAdsID,
	AttrBody,
}

var recognized = func() map[Attribute]struct{} {
	m := make(map[Attribute]struct{}, len(SchemaColumns))
	for _, a := range SchemaColumns {
		m[a] = struct{}{}
	}
	return m
}()

// PropertyRow is one reconciled output row: a mapping from recognized
// attribute ids to rendered values. Missing attributes stay absent
// rather than zero-filled.
type PropertyRow struct {
	values map[Attribute]string
}

func NewPropertyRow() PropertyRow {
	return PropertyRow{values: make(map[Attribute]string)}
}

// Set stores a value under id if id belongs to the recognized schema.
// It reports whether the id was accepted; repeated ids overwrite
// (last write wins). Null values are stored as empty strings so the
// attribute still counts as present.
func (r PropertyRow) Set(id string, value interface{}) bool {
	attr := Attribute(id)
	if _, ok := recognized[attr]; !ok {
		return false
	}
	r.values[attr] = FormatValue(value)
	return true
}

func (r PropertyRow) Get(attr Attribute) (string, bool) {
	v, ok := r.values[attr]
	return v, ok
}

func (r PropertyRow) Len() int {
	return len(r.values)
}

// Record renders the row in SchemaColumns order, with empty cells for
// absent attributes.
func (r PropertyRow) Record() []string {
	rec := make([]string, len(SchemaColumns))
	for i, col := range SchemaColumns {
		rec[i] = r.values[col]
	}
	return rec
}

// FormatValue renders a payload scalar for output. JSON numbers arrive
// as float64; integral ones must not grow a trailing ".0".
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
