package handlers

import (
	"net/http"

	"costbook/internal/pricelist"
	"costbook/internal/workspace"
)

const maxPriceListUploadSize = 5 << 20 // 5 MiB

type priceListResponse struct {
	workspace.PriceResult
	Skipped int `json:"skipped_lines"`
}

// ImportPriceList applies a supplier price list (PDF or text) to the SKU pack costs.
func ImportPriceList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		respondAction(w, r, nil, workspace.ErrNoData, "")
		return
	}

	data, _, mime, err := readUpload(w, r, "price_list", maxPriceListUploadSize)
	if err != nil {
		respondAction(w, r, nil, err, "")
		return
	}
	text, err := pricelist.ExtractText(data, mime)
	if err != nil {
		respondAction(w, r, nil, err, "")
		return
	}

	updates, skipped := pricelist.Parse(text)
	result, err := costingData.ApplyPriceUpdates(r.Context(), updates)
	resp := priceListResponse{PriceResult: result, Skipped: skipped}
	respondAction(w, r, resp, err, priceListMessage(resp))
}

func priceListMessage(resp priceListResponse) string {
	switch {
	case len(resp.Applied) == 0:
		return "No prices in the list matched a SKU."
	case len(resp.Unmatched) > 0:
		return "Prices updated. Some lines did not match a SKU: " + joinNames(resp.Unmatched)
	default:
		return "Prices updated."
	}
}

func joinNames(names []string) string {
	const limit = 5
	out := ""
	for i, name := range names {
		if i == limit {
			return out + ", ..."
		}
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
