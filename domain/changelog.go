package domain

import "strings"

const (
	unreleasedHeading = "## [Unreleased]"
	h2Prefix          = "## ["
	h3Prefix          = "### "
	bulletPrefix      = "- "
)

// ChangelogSectionSecurity is the Keep-a-Changelog subsection that records
// vulnerability fixes.
const ChangelogSectionSecurity = "Security"

// InsertChangelogEntry inserts one or more bullet entries into the named
// subsection of the "## [Unreleased]" section of a Keep-a-Changelog
// formatted string.
//
// Behaviour:
//   - If "## [Unreleased]" is missing, the content is returned unchanged.
//   - If the subsection already exists under Unreleased, the entries are
//     appended after the last bullet line in that subsection.
//   - If the subsection does not exist, it is created right after the
//     "## [Unreleased]" line.
func InsertChangelogEntry(content, section string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")

	unreleasedIdx := findUnreleasedIndex(lines)
	if unreleasedIdx < 0 {
		return content // no Unreleased section
	}

	// Find the boundary of the Unreleased section (next ## [ heading or EOF).
	nextH2Idx := findNextH2Index(lines, unreleasedIdx)

	// Look for the subsection inside the Unreleased region.
	heading := h3Prefix + section
	sectionIdx := findSectionIndex(lines, heading, unreleasedIdx, nextH2Idx)

	bulletLines := make([]string, 0, len(entries))
	bulletLines = append(bulletLines, entries...)

	if sectionIdx >= 0 {
		insertAfter := findLastBullet(lines, sectionIdx, nextH2Idx)
		lines = insertLines(lines, insertAfter+1, bulletLines)
	} else {
		// No matching subsection — create one after ## [Unreleased].
		block := []string{"", heading, ""}
		block = append(block, bulletLines...)
		lines = insertLines(lines, unreleasedIdx+1, block)
	}

	return strings.Join(lines, "\n")
}

// findUnreleasedIndex returns the line index of the "## [Unreleased]"
// heading, or -1 if not found.
func findUnreleasedIndex(lines []string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == unreleasedHeading {
			return i
		}
	}
	return -1
}

// findNextH2Index returns the line index of the next "## [" heading after
// startIdx, or len(lines) if there is none.
func findNextH2Index(lines []string, startIdx int) int {
	for i := startIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), h2Prefix) {
			return i
		}
	}
	return len(lines)
}

// findSectionIndex returns the line index of the subsection heading between
// startIdx and endIdx, or -1 if not found.
func findSectionIndex(lines []string, heading string, startIdx, endIdx int) int {
	for i := startIdx + 1; i < endIdx; i++ {
		if strings.TrimSpace(lines[i]) == heading {
			return i
		}
	}
	return -1
}

// findLastBullet returns the index of the last bullet line in the
// subsection, starting from sectionIdx.
func findLastBullet(lines []string, sectionIdx, endIdx int) int {
	insertAfter := sectionIdx
	for i := sectionIdx + 1; i < endIdx; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue // skip blank lines between bullets
		}
		if strings.HasPrefix(trimmed, bulletPrefix) {
			insertAfter = i
			continue
		}
		// Hit a different subsection heading or non-bullet content.
		break
	}
	return insertAfter
}

// insertLines inserts extra lines into slice at the given index.
func insertLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return result
}
