// Package importer loads subjects from plain text files.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/studyplan/internal/form"
	"github.com/verte-zerg/studyplan/internal/model"
)

// LoadSubjects reads one "name,weight" pair per line. Blank lines and lines
// starting with # are skipped. The last comma separates the weight, so names
// may contain commas.
func LoadSubjects(path string) ([]model.SubjectInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only subject list.
			_ = cerr
		}
	}()

	var subjects []model.SubjectInput
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		input, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		subjects = append(subjects, input)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, fmt.Errorf("subject list is empty")
	}
	return subjects, nil
}

func parseLine(line string) (model.SubjectInput, error) {
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return model.SubjectInput{}, errors.New("expected name,weight")
	}
	return form.ParseSubject(line[:idx], line[idx+1:])
}
