package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// splitEntry identifies one recording inside a split file.
type splitEntry struct {
	ID      string `json:"id"`
	Subject string `json:"subject_id"`
}

// Splits holds the merged partition assignment. Statistics are computed
// strictly from the train partition; the other partitions only feed the
// run summary.
type Splits struct {
	Partitions map[string][]splitEntry
}

// The test_trial partition comes from the subject-identification split;
// everything else from the emotion-recognition split.
const (
	subjectSplitFile = "splits_subject_identification.json"
	emotionSplitFile = "splits_emotion_recognition.json"
)

// LoadSplits reads and merges the two split-metadata files in splitDir.
func LoadSplits(splitDir string) (*Splits, error) {
	subject, err := readSplitFile(filepath.Join(splitDir, subjectSplitFile))
	if err != nil {
		return nil, err
	}

	emotion, err := readSplitFile(filepath.Join(splitDir, emotionSplitFile))
	if err != nil {
		return nil, err
	}

	return &Splits{
		Partitions: map[string][]splitEntry{
			"train":        emotion["train"],
			"val_trial":    emotion["val_trial"],
			"val_subject":  emotion["val_subject"],
			"test_trial":   subject["test_trial"],
			"test_subject": emotion["test_subject"],
		},
	}, nil
}

func readSplitFile(path string) (map[string][]splitEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	var parsed map[string][]splitEntry
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("split: %s: %w", path, err)
	}

	return parsed, nil
}

// TrainFiles returns the raw-file paths of the train partition, in split
// order, rooted at inputDir.
func (s *Splits) TrainFiles(inputDir string) []string {
	entries := s.Partitions["train"]
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, trainPath(inputDir, e.ID))
	}

	return out
}

// TrainFilesBySubject groups the train partition's file paths by subject.
func (s *Splits) TrainFilesBySubject(inputDir string) map[string][]string {
	out := make(map[string][]string)
	for _, e := range s.Partitions["train"] {
		out[e.Subject] = append(out[e.Subject], trainPath(inputDir, e.ID))
	}

	return out
}

func trainPath(inputDir, id string) string {
	return filepath.Join(inputDir, "train", id+"_eeg"+rawExt)
}
