package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	applog "costbook/internal/log"
	"costbook/internal/pricelist"
	"costbook/internal/workbook"
	"costbook/internal/workspace"
)

const maxWorkbookUploadSize = 10 << 20 // 10 MiB

var workbookFileName = "Moustache_Costing_MVP.xlsx"

// SetWorkbookFileName sets the file name offered for workbook downloads.
func SetWorkbookFileName(name string) {
	if name = strings.TrimSpace(name); name != "" {
		workbookFileName = name
	}
}

// SaveWorkbook recomputes and persists the dataset.
func SaveWorkbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		respondAction(w, r, nil, workspace.ErrNoData, "")
		return
	}
	rev, err := costingData.Save(r.Context())
	respondAction(w, r, rev, err, "Saved and recalculated.")
}

// DownloadWorkbook streams the current dataset as an .xlsx file.
func DownloadWorkbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		writeError(w, r, workspace.ErrNoData)
		return
	}
	tables, err := costingData.Tables()
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf, tables); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workbookFileName))
	if _, err := buf.WriteTo(w); err != nil {
		applog.Error(r.Context(), "failed to stream workbook", "error", err)
	}
}

// UploadWorkbook replaces the whole dataset with an uploaded workbook.
func UploadWorkbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		respondAction(w, r, nil, workspace.ErrNoData, "")
		return
	}

	data, name, _, err := readUpload(w, r, "workbook", maxWorkbookUploadSize)
	if err != nil {
		respondAction(w, r, nil, err, "")
		return
	}
	tables, err := workbook.Read(bytes.NewReader(data))
	if err != nil {
		respondAction(w, r, nil, err, "")
		return
	}
	rev, err := costingData.Import(r.Context(), tables)
	if err == nil {
		applog.Info(r.Context(), "workbook uploaded", "file", name, "revision", rev.ID)
	}
	respondAction(w, r, rev, err, "Workbook uploaded.")
}

// uploadError reports a missing or oversized multipart file.
type uploadError struct {
	msg string
}

func (e *uploadError) Error() string {
	return e.msg
}

// readUpload returns the bytes, file name and content type of one multipart file.
func readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, "", "", &uploadError{msg: "upload could not be read: " + err.Error()}
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", "", &uploadError{msg: fmt.Sprintf("no %s file was uploaded", field)}
		}
		return nil, "", "", err
	}
	defer file.Close()

	if header.Size > limit {
		return nil, "", "", &uploadError{msg: fmt.Sprintf("file exceeds %d bytes", limit)}
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return nil, "", "", err
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = pricelist.MimeTypeFromName(header.Filename)
	}
	return buf.Bytes(), header.Filename, mime, nil
}
