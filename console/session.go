// Package console runs the interactive prediction loop.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aouyang1/go-demand/feature"
	"github.com/aouyang1/go-demand/holiday"
)

// Predictor is the estimator surface the session needs.
type Predictor interface {
	Predict(rec feature.Record) (int, error)
	Fitted() bool
}

// Session prompts for a city and the operational flags, then prints one prediction per
// round until the user declines another or input ends.
type Session struct {
	in        *bufio.Scanner
	lines     chan string
	readErr   error
	readOnce  sync.Once
	out       io.Writer
	assembler *feature.Assembler
	predictor Predictor
	holidays  *holiday.Calendar
}

// NewSession creates a session. holidays may be nil to disable holiday detection.
func NewSession(in io.Reader, out io.Writer, assembler *feature.Assembler, predictor Predictor, holidays *holiday.Calendar) *Session {
	return &Session{
		in:        bufio.NewScanner(in),
		lines:     make(chan string),
		out:       out,
		assembler: assembler,
		predictor: predictor,
		holidays:  holidays,
	}
}

// Run loops until the user declines another prediction, input is exhausted or ctx is
// done. Reaching the end of input is not an error. Cancelling ctx returns its error even
// while waiting at a prompt. A session is run at most once.
func (s *Session) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.predictor.Fitted() {
		s.printf("Note: no fitted model loaded, predictions are not meaningful.\n")
	}
	s.readOnce.Do(func() { go s.readLines(ctx) })

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.round(ctx)
		if err == nil {
			var answer string
			answer, err = s.prompt(ctx, "\nMake another prediction? (y/n): ")
			if err == nil && isYes(answer) {
				continue
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// readLines feeds input lines to prompt so a blocked read never holds up cancellation.
func (s *Session) readLines(ctx context.Context) {
	defer close(s.lines)
	for s.in.Scan() {
		select {
		case s.lines <- s.in.Text():
		case <-ctx.Done():
			return
		}
	}
	s.readErr = s.in.Err()
}

func (s *Session) round(ctx context.Context) error {
	s.printf("\n=== Food Delivery Demand Predictor ===\n\n")

	city, err := s.prompt(ctx, "Enter city name (e.g., London): ")
	if err != nil {
		return err
	}

	obs, err := s.assembler.Weather(ctx, city)
	if err != nil {
		s.printf("Error fetching weather data. Using default values.\n")
	}

	at := s.assembler.Now()
	holidayPrompt := "Is today a holiday? (y/n): "
	detected, isDetected := s.holidays.Lookup(at)
	if isDetected {
		holidayPrompt = fmt.Sprintf("Is today a holiday? (y/n) [%s]: ", detected)
	}
	answer, err := s.prompt(ctx, holidayPrompt)
	if err != nil {
		return err
	}
	isHoliday := isYes(answer)
	if isDetected && strings.TrimSpace(answer) == "" {
		isHoliday = true
	}

	answer, err = s.prompt(ctx, "Is there an active promotion? (y/n): ")
	if err != nil {
		return err
	}

	rec := s.assembler.Record(obs, feature.Request{
		City:            city,
		At:              at,
		IsHoliday:       isHoliday,
		PromotionActive: isYes(answer),
	})

	orders, err := s.predictor.Predict(rec)
	if err != nil {
		s.printf("Error predicting demand: %v\n", err)
		return nil
	}

	s.printf("\n=== Prediction Results ===\n")
	s.printf("Predicted number of orders: %d\n", orders)
	s.printf("Temperature: %s°C\n", strconv.FormatFloat(rec.Temperature, 'f', -1, 64))
	s.printf("Time period: %s\n", timePeriod(rec))
	s.printf("Day type: %s\n", dayType(rec))
	s.printf("Promotion active: %s\n", yesNo(rec.PromotionActive))
	return nil
}

// prompt writes the question and waits for one line. It returns io.EOF at end of input
// and ctx's error once ctx is done.
func (s *Session) prompt(ctx context.Context, question string) (string, error) {
	s.printf("%s", question)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.readErr != nil {
				return "", s.readErr
			}
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func timePeriod(rec feature.Record) string {
	switch {
	case rec.IsLunchTime:
		return "Lunch time"
	case rec.IsDinnerTime:
		return "Dinner time"
	}
	return "Regular hours"
}

func dayType(rec feature.Record) string {
	if rec.IsWeekend {
		return "Weekend"
	}
	return "Weekday"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
