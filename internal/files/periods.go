package files

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// ErrPeriodNotInName is returned when a file name is too short for its period rule
var ErrPeriodNotInName = errors.New("file name does not contain a period")

// PeriodRule extracts a period label from a fixed character range of a file name.
// This is the fallback for datasets without an explicit file list.
type PeriodRule struct {
	Start int
	End   int
	// ReplaceOld is replaced by ReplaceNew inside the extracted label
	ReplaceOld string
	ReplaceNew string
	Prefix     string
}

// Mapping binds a period to a file explicitly
type Mapping struct {
	Period domain.Period
	File   string
	Tag    string
}

// PeriodFile is a data file resolved to its period
type PeriodFile struct {
	Period domain.Period
	Path   string
	Name   string
	Tag    string
}

// PeriodFromName applies the rule to a base file name. Offsets count characters, not bytes.
func PeriodFromName(name string, rule PeriodRule) (domain.Period, error) {
	runes := []rune(name)
	if rule.Start < 0 || rule.End <= rule.Start || rule.End > len(runes) {
		return "", fmt.Errorf("%w: %q [%d:%d]", ErrPeriodNotInName, name, rule.Start, rule.End)
	}

	label := string(runes[rule.Start:rule.End])
	if rule.ReplaceOld != "" {
		label = strings.ReplaceAll(label, rule.ReplaceOld, rule.ReplaceNew)
	}
	return domain.Period(rule.Prefix + label), nil
}

// PeriodFiles lists a dataset's files with their periods. Explicit mappings
// win and keep their order; otherwise every CSV in dir is used in name order
// with its period taken from the name.
func (d *Discovery) PeriodFiles(dir string, mappings []Mapping, rule PeriodRule) ([]PeriodFile, error) {
	if len(mappings) > 0 {
		out := make([]PeriodFile, 0, len(mappings))
		for _, m := range mappings {
			path := m.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(d.Resolve(dir), path)
			}
			out = append(out, PeriodFile{
				Period: m.Period,
				Path:   path,
				Name:   filepath.Base(path),
				Tag:    m.Tag,
			})
		}
		return out, nil
	}

	found, err := d.FindCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	out := make([]PeriodFile, 0, len(found))
	for _, f := range found {
		period, err := PeriodFromName(f.Name, rule)
		if err != nil {
			return nil, err
		}
		out = append(out, PeriodFile{Period: period, Path: f.Path, Name: f.Name})
	}
	return out, nil
}

// Periods returns the periods of the files in order
func Periods(files []PeriodFile) []domain.Period {
	out := make([]domain.Period, len(files))
	for i, f := range files {
		out[i] = f.Period
	}
	return out
}
