package statement

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
)

func mustCategory(t *testing.T, ct category.Type) category.Category {
	t.Helper()

	c, ok := category.Get(ct)
	if !ok {
		t.Fatalf("unknown category %s", ct)
	}

	return c
}

func TestService_Bundle(t *testing.T) {
	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if r.URL.Path == "/documents/1/download" {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", "attachment; filename=\"rechnung_wasser.pdf\"")
			w.Write([]byte("fake pdf content"))

			return
		}

		if r.URL.Path == "/documents/2/download" {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("more fake pdf content"))

			return
		}

		if r.URL.Path == "/documents/1/ocr" {
			// Windows-1252 "Gebühr" as a scanner would emit it.
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte{'G', 'e', 'b', 0xFC, 'h', 'r'})

			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	tmpDir, err := os.MkdirTemp("", "bundle_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	stmt := &billing.Statement{
		Kind:                 billing.KindOperating,
		BuildingID:           uuid.New(),
		PeriodStart:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:            time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		FormattedPeriodStart: "01.01.2024",
		FormattedPeriodEnd:   "31.12.2024",
		SpreadTotal:          58874,
		Total:                58874,
		PrepaymentTotal:      60000,
		Balance:              1126,
		Groups: []billing.Group{
			{
				Category: mustCategory(t, category.TypeWater),
				Invoices: []invoice.Invoice{
					{
						ID:          uuid.New(),
						Purpose:     "Wasserversorgung 2024",
						TotalAmount: 58874,
						Files: []invoice.FileRef{
							{ID: uuid.New(), URL: ts.URL + "/documents/1/download"},
							{ID: uuid.New(), URL: ts.URL + "/documents/1/ocr", Name: "rechnung_wasser.txt"},
						},
					},
				},
			},
			{
				Category: mustCategory(t, category.TypeWasteDisposal),
				Invoices: []invoice.Invoice{
					{
						ID:          uuid.New(),
						Purpose:     "Müllabfuhr 2. Halbjahr",
						TotalAmount: 12000,
						Files: []invoice.FileRef{
							{ID: uuid.New(), URL: ts.URL + "/documents/2/download", Name: "muellabfuhr.pdf"},
						},
					},
					{
						ID:          uuid.New(),
						Purpose:     "Restmüll Sonderleerung",
						TotalAmount: 4500,
					},
				},
			},
		},
	}

	service := NewService("test-token")

	zipPath, err := service.Bundle(context.Background(), stmt, tmpDir)
	if err != nil {
		t.Fatalf("Bundle failed: %v", err)
	}

	if gotAuth != "Token test-token" {
		t.Errorf("expected token auth header, got %q", gotAuth)
	}

	wantZip := "abrechnung_operating_20240101_20241231.zip"
	if filepath.Base(zipPath) != wantZip {
		t.Errorf("expected %s, got %s", wantZip, filepath.Base(zipPath))
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("opening zip: %v", err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}

	for _, want := range []string{
		"abrechnung.json",
		"zusammenfassung.txt",
		"rechnung_wasser.pdf", // from Content-Disposition
		"muellabfuhr.pdf",     // from the file ref name
		"rechnung_wasser.txt",
	} {
		if !names[want] {
			t.Errorf("expected zip to contain %s, got %v", want, names)
		}
	}

	ocr, err := os.ReadFile(filepath.Join(tmpDir, "rechnung_wasser.txt"))
	if err != nil {
		t.Fatalf("reading ocr sidecar: %v", err)
	}

	if string(ocr) != "Gebühr" {
		t.Errorf("expected normalized UTF-8 sidecar, got %q", string(ocr))
	}
}

func TestService_GenerateSummary(t *testing.T) {
	s := &Service{}

	stmt := &billing.Statement{
		FormattedPeriodStart: "01.01.2024",
		FormattedPeriodEnd:   "30.06.2024",
		Total:                90000,
		PrepaymentTotal:      180000,
		Balance:              90000,
	}

	items := []Item{
		{
			Invoice: billing.GroupedInvoice{
				Category: category.TypeWater,
				Invoice:  invoice.Invoice{Purpose: "Wasser Abschlag", TotalAmount: 58874},
			},
			FilePath: "/tmp/rechnung_wasser.pdf",
		},
		{
			Invoice: billing.GroupedInvoice{
				Category: category.TypeJanitor,
				Invoice:  invoice.Invoice{Purpose: "Hausmeister März", TotalAmount: -2500},
			},
		},
	}

	body := s.GenerateSummary(stmt, items)

	expectedSubstrings := []string{
		"Abrechnungszeitraum: 01.01.2024 - 30.06.2024",
		"* water | Wasser Abschlag | 588,74 € | rechnung_wasser.pdf",
		"* janitor | Hausmeister März | -25,00 € | kein Beleg",
		"Gesamtkosten: 900,00 €",
		"Vorauszahlungen: 1.800,00 €",
		"Differenzbetrag: 900,00 €",
	}

	for _, sub := range expectedSubstrings {
		if !strings.Contains(body, sub) {
			t.Errorf("expected body to contain %q", sub)
		}
	}
}
