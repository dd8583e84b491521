package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"haa-backtest/internal/calendar"
)

// promptDates asks for whichever of start and end is still empty.
func promptDates(in io.Reader, out io.Writer, start, end *string) error {
	sc := bufio.NewScanner(in)
	ask := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprintf(out, "%s (YYYY-MM-DD): ", label)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return fmt.Errorf("no %s entered", strings.ToLower(label))
		}
		v := strings.TrimSpace(sc.Text())
		if _, err := calendar.ParseDate(v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
	if err := ask("Start date", start); err != nil {
		return err
	}
	return ask("End date", end)
}
