package transfer

type SettingsUpdate struct {
	Timezone        string  `json:"timezone"`
	MinGapHours     float64 `json:"min_gap_hours"`
	DefaultStrategy string  `json:"default_strategy"`
}
