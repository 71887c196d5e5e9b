package settings

import (
	"fmt"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Update settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Printf("Conference:        %s to %s\n", orUnset(settings.ConferenceStart), orUnset(settings.ConferenceEnd))
	fmt.Printf("Day window:        %s - %s\n", settings.DayStart, settings.DayEnd)
	fmt.Printf("Travel buffer:     %d min\n", settings.TravelBufferMin)
	fmt.Printf("Daily session cap: %d min\n", settings.MaxSessionMinutes)
	fmt.Printf("Timezone:          %s\n", orUnset(settings.Timezone))
	return nil
}

type SettingsSetCmd struct {
	ConferenceStart string `help:"First conference day (YYYY-MM-DD)."`
	ConferenceEnd   string `help:"Last conference day (YYYY-MM-DD)."`
	DayStart        string `help:"Start of the scheduling window (HH:MM)."`
	DayEnd          string `help:"End of the scheduling window (HH:MM)."`
	TravelBuffer    int    `help:"Minutes expected between rooms." default:"-1"`
	MaxMinutes      int    `help:"Daily session-minute cap." default:"-1"`
	Timezone        string `help:"IANA timezone name."`
}

func (c *SettingsSetCmd) Validate() error {
	if c.ConferenceStart != "" && !utils.ValidateDateFormat(c.ConferenceStart) {
		return fmt.Errorf("invalid conference start date: %s", c.ConferenceStart)
	}
	if c.ConferenceEnd != "" && !utils.ValidateDateFormat(c.ConferenceEnd) {
		return fmt.Errorf("invalid conference end date: %s", c.ConferenceEnd)
	}
	if c.DayStart != "" && !utils.ValidateTimeFormat(c.DayStart) {
		return fmt.Errorf("invalid day start time: %s", c.DayStart)
	}
	if c.DayEnd != "" && !utils.ValidateTimeFormat(c.DayEnd) {
		return fmt.Errorf("invalid day end time: %s", c.DayEnd)
	}
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", c.Timezone)
	}
	return nil
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	if c.ConferenceStart != "" {
		settings.ConferenceStart = c.ConferenceStart
	}
	if c.ConferenceEnd != "" {
		settings.ConferenceEnd = c.ConferenceEnd
	}
	if c.DayStart != "" {
		settings.DayStart = c.DayStart
	}
	if c.DayEnd != "" {
		settings.DayEnd = c.DayEnd
	}
	if c.TravelBuffer >= 0 {
		settings.TravelBufferMin = c.TravelBuffer
	}
	if c.MaxMinutes > 0 {
		settings.MaxSessionMinutes = c.MaxMinutes
	}
	if c.Timezone != "" {
		settings.Timezone = c.Timezone
	}

	if settings.ConferenceStart != "" && settings.ConferenceEnd != "" {
		if _, err := utils.DatesInRange(settings.ConferenceStart, settings.ConferenceEnd); err != nil {
			return err
		}
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Println("Settings updated.")
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
