package importer

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	input := `name,address,postcode,phone,url,specialties,hours,notes
Old Town Curios,12 Victoria Street,eh1 2ht,0131 225 1234,www.oldtowncurios.co.uk,furniture|silver,"Mon-Fri: 10am-5pm, Sun: Closed",ignore me
,No Name Lane,,,,,,
`
	rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	r := rows[0]
	if r.Name != "Old Town Curios" || r.Address != "12 Victoria Street" {
		t.Errorf("row 1 mismapped: %+v", r)
	}
	if r.Specialties != "furniture|silver" {
		t.Errorf("specialties = %q", r.Specialties)
	}
	if r.Hours != "Mon-Fri: 10am-5pm, Sun: Closed" {
		t.Errorf("hours = %q", r.Hours)
	}
	if rows[1].Name != "" {
		t.Errorf("row 2 should keep its empty name for later validation, got %q", rows[1].Name)
	}
}

func TestParseCSV_MissingNameColumn(t *testing.T) {
	input := "address,phone\n12 Victoria Street,0131 225 1234\n"
	if _, err := parseCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected an error for a header without a name column")
	}
}

func TestPlaceFromRow(t *testing.T) {
	row := Row{
		Name:     "Old Town Curios",
		Address:  "12 Victoria Street",
		Postcode: "eh1 2ht",
		Phone:    "0131 225 1234",
		URL:      "www.oldtowncurios.co.uk/",
		Hours:    "Mon-Fri: 10am-5pm",
	}

	p, err := placeFromRow(row)
	if err != nil {
		t.Fatalf("placeFromRow failed: %v", err)
	}
	if p.Slug != "old-town-curios" {
		t.Errorf("slug = %q", p.Slug)
	}
	if p.Active {
		t.Error("imported places must start inactive")
	}
	if p.Postcode == nil || *p.Postcode != "EH1 2HT" {
		t.Errorf("postcode = %v, want EH1 2HT", p.Postcode)
	}
	if p.Phone == nil || *p.Phone != "+441312251234" {
		t.Errorf("phone = %v, want +441312251234", p.Phone)
	}
	if p.URL == nil || *p.URL != "https://oldtowncurios.co.uk" {
		t.Errorf("url = %v, want https://oldtowncurios.co.uk", p.URL)
	}
	if p.LegacyHours == nil || *p.LegacyHours != "Mon-Fri: 10am-5pm" {
		t.Errorf("legacy hours = %v", p.LegacyHours)
	}
}

func TestPlaceFromRow_Validation(t *testing.T) {
	if _, err := placeFromRow(Row{Address: "somewhere"}); err == nil {
		t.Error("row without a name should fail")
	}
	if _, err := placeFromRow(Row{Name: "Shop"}); err == nil {
		t.Error("row without an address should fail")
	}
}
