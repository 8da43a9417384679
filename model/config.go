package model

import "github.com/Ayman-Singh/IoT-InvisiStrings/constants"

// Config carries every engine tunable. Zero values are never meaningful;
// start from DefaultConfig and override fields.
type Config struct {
	UpThreshold      float64
	DownThreshold    float64
	CooldownSeconds  float64
	MinStrumDuration float64
	StrumDisplaySecs float64
	ChordCount       int
	PlayHistoryCap   int
	StrumHistoryCap  int
	AxisHistoryCap   int
	BatchCapPerTick  int
}

func DefaultConfig() Config {
	return Config{
		UpThreshold:      constants.UpStrumThreshold,
		DownThreshold:    constants.DownStrumThreshold,
		CooldownSeconds:  constants.StrumCooldown,
		MinStrumDuration: constants.MinStrumDuration,
		StrumDisplaySecs: constants.StrumDisplayDuration,
		ChordCount:       constants.ChordCount,
		PlayHistoryCap:   constants.PlayHistoryCap,
		StrumHistoryCap:  constants.StrumHistoryCap,
		AxisHistoryCap:   constants.AxisHistoryCap,
		BatchCapPerTick:  constants.BatchCapPerTick,
	}
}
