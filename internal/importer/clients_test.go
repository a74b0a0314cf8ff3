package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
	"github.com/empresatop10/employee-manager/internal/infrastructure/db/memory"
)

type stubSource struct {
	names  []string
	sheets map[string][][]string
}

func (s *stubSource) Sheets() []string { return s.names }

func (s *stubSource) Rows(sheet string) ([][]string, error) {
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, errors.New("no such sheet")
	}
	return rows, nil
}

var captions = [][]string{
	{"Client list"},
	{},
	{"Name", "Email", "Telephone", "Address"},
}

func withCaptions(rows ...[]string) [][]string {
	return append(append([][]string{}, captions...), rows...)
}

func newSource() *stubSource {
	return &stubSource{
		names: []string{"Cover", "North", "South"},
		sheets: map[string][][]string{
			"Cover": {{"Acme Ltd", "cover@acme.com"}},
			"North": withCaptions(
				[]string{"Acme Ltd", "contact@acme.com", "555-0100", "1 Main St"},
				[]string{"", "", "", ""},
				[]string{"Globex", "Sales@Globex.com"},
			),
			"South": withCaptions(
				[]string{"Initech", "hello@initech.com", "555-0199"},
			),
		},
	}
}

func opts() Options { return Options{Log: zerolog.Nop()} }

func TestImportClients(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()

	sum, err := ImportClients(ctx, newSource(), repos.Clients, opts())
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if sum.Sheets != 2 || sum.Rows != 3 || sum.Created != 3 || sum.Blank != 1 || len(sum.Issues) != 0 {
		t.Errorf("summary = %+v", sum)
	}

	all, err := repos.Clients.List(ctx, domain.All(domain.KindClient))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("stored %d clients, want 3", len(all))
	}
	for _, c := range all {
		if c.Email == "cover@acme.com" {
			t.Error("first sheet must not be imported")
		}
	}
}

func TestImportClients_Idempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()

	if _, err := ImportClients(ctx, newSource(), repos.Clients, opts()); err != nil {
		t.Fatal(err)
	}
	sum, err := ImportClients(ctx, newSource(), repos.Clients, opts())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Created != 0 || sum.Existing != 3 {
		t.Errorf("second run summary = %+v", sum)
	}
	all, _ := repos.Clients.List(ctx, domain.All(domain.KindClient))
	if len(all) != 3 {
		t.Errorf("stored %d clients after re-import, want 3", len(all))
	}
}

func TestImportClients_ReportsConflictsAndInvalidRows(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	if _, _, err := repos.Clients.GetOrCreate(ctx, "Acme Ltd", "contact@acme.com"); err != nil {
		t.Fatal(err)
	}

	src := &stubSource{
		names: []string{"Cover", "Data"},
		sheets: map[string][][]string{
			"Cover": nil,
			"Data": withCaptions(
				[]string{"Acme Holdings", "contact@acme.com"},
				[]string{"No Email"},
				[]string{"Umbrella", "info@umbrella.com"},
			),
		},
	}
	sum, err := ImportClients(ctx, src, repos.Clients, opts())
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if sum.Created != 1 || len(sum.Issues) != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	if got := sum.Issues[0]; got.Row != 4 || got.Email != "contact@acme.com" || got.Reason != "email belongs to another client" {
		t.Errorf("conflict issue = %+v", got)
	}
	if got := sum.Issues[1]; got.Row != 5 || got.Name != "No Email" {
		t.Errorf("invalid issue = %+v", got)
	}

	c, _, err := repos.Clients.GetOrCreate(ctx, "Acme Ltd", "contact@acme.com")
	if err != nil || c.Name != "Acme Ltd" {
		t.Errorf("existing client changed: %+v, %v", c, err)
	}
}

func TestImportClients_SingleSheet(t *testing.T) {
	src := &stubSource{names: []string{"Only"}, sheets: map[string][][]string{"Only": withCaptions([]string{"A", "a@a.com"})}}
	sum, err := ImportClients(context.Background(), src, memory.New().Repositories().Clients, opts())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Sheets != 0 || sum.Created != 0 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestImportClients_SourceError(t *testing.T) {
	src := &stubSource{names: []string{"Cover", "Missing"}, sheets: map[string][][]string{}}
	if _, err := ImportClients(context.Background(), src, memory.New().Repositories().Clients, opts()); err == nil {
		t.Fatal("expected error")
	}
}

func TestImportClients_WorkersKeepFileOrderPerEmail(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()

	var data [][]string
	for i := 0; i < 40; i++ {
		data = append(data, []string{fmt.Sprintf("Client %02d", i), fmt.Sprintf("c%02d@example.com", i)})
	}
	// Same address, different name: the later row loses, whichever worker runs it.
	data = append(data, []string{"Impostor", "C07@example.com"})

	src := &stubSource{names: []string{"Cover", "Data"}, sheets: map[string][][]string{"Cover": nil, "Data": withCaptions(data...)}}
	sum, err := ImportClients(ctx, src, repos.Clients, Options{Workers: 3, Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if sum.Rows != 41 || sum.Created != 40 || len(sum.Issues) != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if got := sum.Issues[0]; got.Name != "Impostor" || got.Row != 44 {
		t.Errorf("conflict issue = %+v", got)
	}
}

// failingClients fails for one address and stores everything else.
type failingClients struct {
	ports.ClientRepository
	badEmail string
}

func (f *failingClients) GetOrCreate(ctx context.Context, name, email string) (*domain.Client, bool, error) {
	if email == f.badEmail {
		return nil, false, errors.New("connection reset")
	}
	return f.ClientRepository.GetOrCreate(ctx, name, email)
}

func TestImportClients_StoreFailureAborts(t *testing.T) {
	repos := memory.New().Repositories()
	clients := &failingClients{ClientRepository: repos.Clients, badEmail: "sales@globex.com"}

	src := newSource()
	src.sheets["North"][5][1] = "sales@globex.com"
	sum, err := ImportClients(context.Background(), src, clients, opts())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `sheet "North" row 6`) {
		t.Errorf("error does not name the row: %v", err)
	}
	if sum.Created > 1 {
		t.Errorf("summary counts rows past the failure: %+v", sum)
	}
}

func TestOpenWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.xlsx")

	f := excelize.NewFile()
	if _, err := f.NewSheet("Clients"); err != nil {
		t.Fatal(err)
	}
	for i, row := range withCaptions([]string{"Acme Ltd", "contact@acme.com"}) {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Clients", cellRef, &values); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer wb.Close()

	sum, err := ImportClients(context.Background(), wb, memory.New().Repositories().Clients, opts())
	if err != nil {
		t.Fatalf("ImportClients: %v", err)
	}
	if sum.Created != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestOpenWorkbook_Missing(t *testing.T) {
	if _, err := OpenWorkbook(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatal("expected error")
	}
}
