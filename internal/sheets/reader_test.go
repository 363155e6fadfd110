package sheets

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	values := map[string]string{"A1": "编号", "B1": "名称", "C1": "备注", "A2": "1", "B2": "导入", "A3": "2", "C4": "末行"}
	for cell, v := range values {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatalf("SetCellValue() error = %v", err)
		}
	}
	if _, err := f.NewSheet("数据"); err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	if err := f.SetCellValue("数据", "B2", "x"); err != nil {
		t.Fatalf("SetCellValue() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func TestInfo(t *testing.T) {
	path := writeWorkbook(t)

	sheets, def, err := Info(path)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if def != "Sheet1" {
		t.Errorf("Info() default = %q, want Sheet1", def)
	}
	if len(sheets) != 2 {
		t.Fatalf("Info() returned %d sheets, want 2", len(sheets))
	}
	if sheets[0].Rows != 4 || sheets[0].Cols != 3 {
		t.Errorf("Sheet1 extent = %dx%d, want 4x3", sheets[0].Rows, sheets[0].Cols)
	}
	if sheets[1].Name != "数据" {
		t.Errorf("second sheet = %q, want 数据", sheets[1].Name)
	}
}

func TestCells(t *testing.T) {
	path := writeWorkbook(t)

	got, err := Cells(path, "Sheet1", 1, 3, 0, 2)
	if err != nil {
		t.Fatalf("Cells() error = %v", err)
	}
	want := [][]string{{"1", "导入"}, {"2", ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cells() = %v, want %v", got, want)
	}

	got, err = Cells(path, "Sheet1", 2, 100, 1, 100)
	if err != nil {
		t.Fatalf("Cells() error = %v", err)
	}
	want = [][]string{{"", ""}, {"", "末行"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cells() past extent = %v, want %v", got, want)
	}
}

func TestCells_Errors(t *testing.T) {
	path := writeWorkbook(t)

	if _, err := Cells(path, "Sheet1", 5, 5, 0, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Cells() empty range error = %v, want ErrInvalidRange", err)
	}
	if _, err := Cells(path, "missing", 0, 1, 0, 1); !errors.Is(err, ErrUnknownSheet) {
		t.Errorf("Cells() unknown sheet error = %v, want ErrUnknownSheet", err)
	}

	fork := filepath.Join(t.TempDir(), "._book.xlsx")
	if err := os.WriteFile(fork, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Info(fork); !errors.Is(err, ErrResourceFork) {
		t.Errorf("Info() resource fork error = %v, want ErrResourceFork", err)
	}
}

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n1,2\n3,4,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sheets, def, err := Info(path)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if def != csvSheet || sheets[0].Rows != 3 || sheets[0].Cols != 3 {
		t.Errorf("Info() = %+v, %q", sheets, def)
	}

	got, err := Cells(path, csvSheet, 1, 3, 1, 3)
	if err != nil {
		t.Fatalf("Cells() error = %v", err)
	}
	want := [][]string{{"2", ""}, {"4", "5"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cells() = %v, want %v", got, want)
	}
}
