package model

import (
	"strings"
	"testing"
	"time"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Aayush Kukreja", "Aayush_Kukreja"},
		{"O'Neil-Smith", "O_Neil_Smith"},
		{"Иван", "____"},
		{"abc123", "abc123"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.in); got != tt.want {
			t.Errorf("SafeName(%q) = %q, ожидается %q", tt.in, got, tt.want)
		}
	}
}

func TestFileNames(t *testing.T) {
	if got := DisplayFileName("emp-101", "Rohan Das"); got != "emp_101_Rohan_Das.pdf" {
		t.Errorf("DisplayFileName() = %q", got)
	}

	got := StorageFileName("3f2a9c1e-0000-4000-8000-000000000000", "emp-101", "Rohan Das")
	if got != "emp_101_Rohan_Das_3f2a9c1e.pdf" {
		t.Errorf("StorageFileName() = %q", got)
	}
}

// TestFileNames_LongInput — имена из метаданных предельной длины
// укладываются в ограничение ФС на длину имени файла.
func TestFileNames_LongInput(t *testing.T) {
	employeeID := strings.Repeat("E", 128)
	name := strings.Repeat("N", 255)

	key := StorageFileName("3f2a9c1e-0000-4000-8000-000000000000", employeeID, name)
	// Обрамление временного файла: "." + key + "." + 8 символов + ".tmp"
	if tmpLen := len(key) + 14; tmpLen > 255 {
		t.Errorf("длина временного имени = %d, ожидается не больше 255", tmpLen)
	}
	if !strings.HasSuffix(key, "_3f2a9c1e.pdf") {
		t.Errorf("StorageFileName() = %q, потерян суффикс ID", key)
	}
	if !strings.HasPrefix(key, strings.Repeat("E", maxEmployeeIDPart)+"_") {
		t.Errorf("StorageFileName() = %q, ожидался обрезанный табельный номер", key)
	}

	display := DisplayFileName(employeeID, name)
	if len(display) > 255 {
		t.Errorf("длина DisplayFileName() = %d, ожидается не больше 255", len(display))
	}
	if !strings.HasSuffix(display, ".pdf") {
		t.Errorf("DisplayFileName() = %q, ожидалось расширение .pdf", display)
	}

	// Кириллица заменяется посимвольно, обрезка идёт уже по ASCII
	cyr := DisplayFileName("emp", strings.Repeat("Я", 255))
	if cyr != "emp_"+strings.Repeat("_", maxNamePart)+".pdf" {
		t.Errorf("DisplayFileName() для кириллицы = %q", cyr)
	}
}

func TestCertificate_View(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &Certificate{
		ID:            "internal",
		CertificateID: "AB12CD34",
		EmployeeID:    "emp-103",
		CandidateName: "Sarah Smith",
		Position:      "Intern",
		Department:    "Engineering",
		StartDate:     now.AddDate(0, -3, 0),
		EndDate:       now,
		FileName:      "secret-path.pdf",
		Redeemed:      true,
		CreatedAt:     now,
	}

	v := c.View()
	if v.CertificateID != "AB12CD34" || v.EmployeeID != "emp-103" || !v.Redeemed {
		t.Errorf("View() = %+v", v)
	}
	if c.DownloadName() != "emp_103_Sarah_Smith.pdf" {
		t.Errorf("DownloadName() = %q", c.DownloadName())
	}
}
