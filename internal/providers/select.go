package providers

import (
	"strconv"
	"strings"
)

// Filter narrows all by a single label or 1-based index, otherwise by
// range ("3-7") or list ("1,4,9"). With no criteria everything is kept.
func Filter(all []QuizPage, quiz, rng, list string) []QuizPage {
	if quiz != "" {
		byLabel := FilterByLabel(all, quiz)
		if len(byLabel) > 0 {
			return byLabel
		}

		if idx, err := strconv.Atoi(quiz); err == nil {
			if idx > 0 && idx <= len(all) {
				return []QuizPage{all[idx-1]}
			}
		}

		return nil
	}

	if rng != "" {
		return FilterRange(all, rng)
	}
	if list != "" {
		return FilterList(all, list)
	}

	return all
}

func FilterByLabel(all []QuizPage, label string) []QuizPage {
	label = strings.ToLower(strings.TrimSpace(label))

	out := []QuizPage{}
	for _, p := range all {
		if strings.ToLower(p.Label) == label {
			out = append(out, p)
		}
	}

	return out
}

func FilterRange(all []QuizPage, rng string) []QuizPage {
	start, end, ok := strings.Cut(rng, "-")
	if !ok {
		return nil
	}

	from, err1 := strconv.Atoi(strings.TrimSpace(start))
	to, err2 := strconv.Atoi(strings.TrimSpace(end))
	if err1 != nil || err2 != nil {
		return nil
	}
	if from <= 0 || to <= 0 || from > to || to > len(all) {
		return nil
	}

	return all[from-1 : to]
}

func FilterList(all []QuizPage, list string) []QuizPage {
	var out []QuizPage

	for p := range strings.SplitSeq(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		idx, err := strconv.Atoi(p)
		if err != nil || idx <= 0 || idx > len(all) {
			continue
		}

		out = append(out, all[idx-1])
	}

	return out
}
