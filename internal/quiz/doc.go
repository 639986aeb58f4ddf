// Package quiz turns the flat run of heading, code and checklist blocks
// in a rendered quiz page into ordered multiple-choice questions.
package quiz
