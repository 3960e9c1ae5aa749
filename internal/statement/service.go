// Package statement turns an assembled billing statement into a
// shippable artifact: a zip bundle holding the statement data as JSON,
// a human-readable summary and every invoice document referenced by the
// statement, downloaded from the document store.
package statement

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/encoding"
	"github.com/jmeindl/umlage/internal/invoice"
)

// Item links an invoice to the local path of its downloaded document.
// Invoices without an attached file carry an empty path.
type Item struct {
	Invoice  billing.GroupedInvoice
	File     invoice.FileRef
	FilePath string
}

// Service downloads statement documents and assembles export bundles.
type Service struct {
	client   *http.Client
	apiToken string
}

func NewService(apiToken string) *Service {
	return &Service{
		client:   &http.Client{Timeout: 30 * time.Second},
		apiToken: apiToken,
	}
}

// Bundle writes the statement and its invoice documents into outputDir
// and zips the lot. It returns the path of the zip file.
func (s *Service) Bundle(ctx context.Context, stmt *billing.Statement, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	items, err := s.Download(ctx, stmt, outputDir)
	if err != nil {
		return "", err
	}

	dataPath := filepath.Join(outputDir, "abrechnung.json")
	if err := writeStatementJSON(stmt, dataPath); err != nil {
		return "", err
	}

	summaryPath := filepath.Join(outputDir, "zusammenfassung.txt")
	if err := os.WriteFile(summaryPath, []byte(s.GenerateSummary(stmt, items)), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}

	paths := []string{dataPath, summaryPath}
	for _, item := range items {
		if item.FilePath != "" {
			paths = append(paths, item.FilePath)
		}
	}

	zipPath := filepath.Join(outputDir, bundleName(stmt))
	if err := writeZip(zipPath, paths); err != nil {
		return "", err
	}

	return zipPath, nil
}

// Download fetches every document referenced by the statement's
// invoices into dir. Invoices without files still yield an item so the
// summary can flag the missing document.
func (s *Service) Download(ctx context.Context, stmt *billing.Statement, dir string) ([]Item, error) {
	invoices := stmt.Invoices()

	items := make([]Item, 0, len(invoices))

	for _, inv := range invoices {
		if len(inv.Invoice.Files) == 0 {
			items = append(items, Item{Invoice: inv})
			continue
		}

		for _, file := range inv.Invoice.Files {
			item := Item{Invoice: inv, File: file}

			if file.URL != "" {
				path, err := s.downloadFile(ctx, inv, file, dir)
				if err != nil {
					return nil, fmt.Errorf("downloading document for invoice %s: %w", inv.Invoice.ID, err)
				}

				item.FilePath = path
			}

			items = append(items, item)
		}
	}

	return items, nil
}

func (s *Service) downloadFile(ctx context.Context, inv billing.GroupedInvoice, file invoice.FileRef, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	if s.apiToken != "" {
		req.Header.Set("Authorization", "Token "+s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, file.URL)
	}

	filename := determineFilename(resp, inv, file)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	var body io.Reader = resp.Body

	// OCR text sidecars from the document store come in whatever charset
	// the scanner produced. Normalize those to UTF-8; binary documents
	// pass through untouched.
	if ct, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && strings.HasPrefix(ct, "text/") {
		body, err = encoding.NewUTF8Reader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("decoding text document: %w", err)
		}
	}

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

func determineFilename(resp *http.Response, inv billing.GroupedInvoice, file invoice.FileRef) string {
	// 1. Try to get filename from Content-Disposition header.
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				// Basic sanitization of the filename from the server
				return strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	// 2. Fallback: the file ref's own name, if the document store set one.
	if file.Name != "" {
		return strings.ReplaceAll(filepath.Base(file.Name), " ", "_")
	}

	// 3. Last resort: generate a name from the invoice purpose.
	ext := ".pdf" // Default assumption

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	safePurpose := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, inv.Invoice.Purpose)

	return fmt.Sprintf("%s_%s%s", inv.Category, safePurpose, ext)
}

// GenerateSummary renders a line-per-invoice overview with German
// formatting, closing with the reconciliation totals.
func (s *Service) GenerateSummary(stmt *billing.Statement, items []Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Abrechnungszeitraum: %s - %s\n\n", stmt.FormattedPeriodStart, stmt.FormattedPeriodEnd)

	for _, item := range items {
		fileStatus := "kein Beleg"
		if item.FilePath != "" {
			fileStatus = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			item.Invoice.Category,
			item.Invoice.Invoice.Purpose,
			formatCents(item.Invoice.Invoice.TotalAmount),
			fileStatus,
		)
	}

	fmt.Fprintf(&sb, "\nGesamtkosten: %s\n", formatCents(stmt.Total))
	fmt.Fprintf(&sb, "Vorauszahlungen: %s\n", formatCents(stmt.PrepaymentTotal))
	fmt.Fprintf(&sb, "Differenzbetrag: %s\n", formatCents(stmt.Balance))

	return sb.String()
}

// formatCents renders an amount of cents in German notation: decimal
// comma, dot-grouped thousands.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	euros := fmt.Sprintf("%d", cents/100)

	var sb strings.Builder
	for i, r := range euros {
		if i > 0 && (len(euros)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(r)
	}

	return fmt.Sprintf("%s%s,%02d €", sign, sb.String(), cents%100)
}

func writeStatementJSON(stmt *billing.Statement, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating statement file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(stmt); err != nil {
		return fmt.Errorf("encoding statement: %w", err)
	}

	return nil
}

func bundleName(stmt *billing.Statement) string {
	return fmt.Sprintf("abrechnung_%s_%s_%s.zip",
		stmt.Kind,
		stmt.PeriodStart.Format("20060102"),
		stmt.PeriodEnd.Format("20060102"),
	)
}

func writeZip(zipPath string, paths []string) error {
	zf, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating zip file: %w", err)
	}
	defer zf.Close()

	zw := zip.NewWriter(zf)

	for _, path := range paths {
		if err := addZipEntry(zw, path); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing zip: %w", err)
	}

	return nil
}

func addZipEntry(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	dst, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("adding zip entry for %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("writing zip entry for %s: %w", path, err)
	}

	return nil
}
