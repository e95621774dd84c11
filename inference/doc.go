// Package inference ranks labels for raw "<label> <text>" records, renders the
// classification report and measures accuracy against the recorded labels.
package inference
