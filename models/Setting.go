package models

import "strings"

// Setting is one key/value row of the Settings table.
type Setting struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Position int    `gorm:"not null;default:0" json:"-"`
	Key      string `gorm:"index;not null" json:"key"`
	Value    string `json:"value"`
}

// Settings is the ordered Settings table.
type Settings []Setting

// Well-known setting keys read by the costing engine.
const (
	SettingGSTRate     = "gst_rate"
	SettingTargetGPPct = "target_gp_pct"
)

// Lookup returns the value stored under key. Keys compare after trimming whitespace.
func (s Settings) Lookup(key string) (string, bool) {
	key = strings.TrimSpace(key)
	for _, setting := range s {
		if strings.TrimSpace(setting.Key) == key {
			return strings.TrimSpace(setting.Value), true
		}
	}
	return "", false
}

// Set returns a copy of s with key assigned to value, appending the key when absent.
func (s Settings) Set(key, value string) Settings {
	out := make(Settings, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if strings.TrimSpace(out[i].Key) == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Setting{Key: key, Value: value})
}
