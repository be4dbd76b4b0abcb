package schedule

// compactThresholdMinutes separates compact from full slot rendering.
// Purely presentational; validation never consults it.
const compactThresholdMinutes = 30

// SlotLayout describes where a slot sits inside its hour row, in
// percent of the row height. Sub-hour slots get a partial offset and
// height, multi-hour slots a height above 100.
type SlotLayout struct {
	OffsetPct float64 `json:"offset_pct"`
	HeightPct float64 `json:"height_pct"`
	Compact   bool    `json:"compact"`
}

// Layout derives the rendering geometry for a slot.
func Layout(slot Slot) (SlotLayout, error) {
	start, err := minuteOfDay(slot.Start)
	if err != nil {
		return SlotLayout{}, err
	}
	end, err := minuteOfDay(slot.End)
	if err != nil {
		return SlotLayout{}, err
	}

	duration := end - start
	return SlotLayout{
		OffsetPct: float64(start%60) / 60 * 100,
		HeightPct: float64(duration) / 60 * 100,
		Compact:   duration < compactThresholdMinutes,
	}, nil
}
