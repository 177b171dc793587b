package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	applog "costbook/internal/log"
	"costbook/internal/views/pages"
	"costbook/internal/workbook"
	"costbook/internal/workspace"
	"costbook/models"
)

type fieldKind int

const (
	textField fieldKind = iota
	// numberField reads blank as zero.
	numberField
	// yieldField reads blank as one, matching the workbook default.
	yieldField
	// optionalField reads blank as undefined.
	optionalField
	settingField
)

type formField struct {
	key  string
	kind fieldKind
}

var tableFormFields = map[string][]formField{
	models.TableSettings:    {{"key", textField}, {"value", settingField}},
	models.TableConversions: {{"from_uom", textField}, {"multiplier_per_unit", numberField}},
	models.TableSKUs: {
		{"sku_name", textField},
		{"pack_uom", textField},
		{"pack_size", numberField},
		{"pack_cost_inc_gst", numberField},
		{"yield_pct", yieldField},
		{"base_uom", textField},
		{"unit_cost_ex_gst", optionalField},
	},
	models.TableBOM:      {{"recipe", textField}, {"sku_name", textField}, {"qty", numberField}, {"uom", textField}},
	models.TableMenu:     {{"recipe", textField}, {"sell_price_inc_gst", optionalField}},
	models.TableSalesMix: {{"item", textField}, {"qty_sold", numberField}},
}

// EditTable applies the dashboard's table form. Every editable column posts one
// value per row in display order, followed by a blank row for additions; "delete"
// carries the indexes of rows to drop.
func EditTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		respondAction(w, r, nil, workspace.ErrNoData, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		respondAction(w, r, nil, &uploadError{msg: "form could not be read: " + err.Error()}, "")
		return
	}

	name := r.PostForm.Get("table")
	fields, ok := tableFormFields[name]
	if !ok {
		if name == models.TableRecipes {
			respondAction(w, r, nil, workspace.ErrDerivedTable, "")
			return
		}
		respondAction(w, r, nil, workspace.ErrUnknownTable, "")
		return
	}
	if name == models.TableMenu {
		fields = append(slices.Clone(fields), extraFields(r.PostForm)...)
	}

	rows, err := formRows(name, fields, r.PostForm)
	if err != nil {
		respondAction(w, r, nil, err, "")
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		respondAction(w, r, nil, err, "")
		return
	}

	reprice, _ := strconv.ParseBool(r.PostForm.Get("reprice"))
	if err := costingData.ReplaceTable(r.Context(), name, payload, workspace.ReplaceOptions{Reprice: reprice}); err != nil {
		respondAction(w, r, nil, err, "")
		return
	}
	userID, _ := currentUserID(r)
	applog.Info(r.Context(), "table edited", "table", name, "rows", len(rows), "reprice", reprice, "user", userID)

	table, err := costingData.Table(name)
	respondAction(w, r, table, err, name+" updated.")
}

func extraFields(form map[string][]string) []formField {
	var fields []formField
	for key := range form {
		if strings.HasPrefix(key, pages.ExtraFieldPrefix) {
			fields = append(fields, formField{key: key, kind: textField})
		}
	}
	slices.SortFunc(fields, func(a, b formField) int { return strings.Compare(a.key, b.key) })
	return fields
}

// formRows rebuilds the table's JSON rows from the posted columns, skipping
// deleted rows and rows left entirely blank.
func formRows(table string, fields []formField, form map[string][]string) ([]map[string]any, error) {
	count := 0
	for _, field := range fields {
		count = max(count, len(form[field.key]))
	}
	deleted := make(map[string]bool)
	for _, index := range form["delete"] {
		deleted[strings.TrimSpace(index)] = true
	}

	rows := make([]map[string]any, 0, count)
	for i := range count {
		if deleted[strconv.Itoa(i)] {
			continue
		}
		row := make(map[string]any, len(fields))
		blank := true
		for _, field := range fields {
			raw := ""
			if values := form[field.key]; i < len(values) {
				raw = strings.TrimSpace(values[i])
			}
			if raw != "" {
				blank = false
			}
			value, err := formValue(field.kind, raw)
			if err != nil {
				return nil, &workbook.CellError{Sheet: table, Row: i + 1, Column: field.key, Value: raw, Err: err}
			}
			if key, ok := strings.CutPrefix(field.key, pages.ExtraFieldPrefix); ok {
				extra, _ := row["extra"].(map[string]string)
				if extra == nil {
					extra = make(map[string]string)
					row["extra"] = extra
				}
				extra[key] = raw
				continue
			}
			row[field.key] = value
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func formValue(kind fieldKind, raw string) (any, error) {
	switch kind {
	case settingField:
		return workbook.SettingValue(raw), nil
	case numberField, yieldField, optionalField:
		if raw == "" {
			switch kind {
			case yieldField:
				return "1", nil
			case optionalField:
				return nil, nil
			default:
				return "0", nil
			}
		}
		value, err := workbook.ParseNumber(raw)
		if err != nil {
			return nil, err
		}
		return value.String(), nil
	default:
		return raw, nil
	}
}
