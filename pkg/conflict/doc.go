// Package conflict detects visual defects in a diagram layout: element
// labels that collide, arrows that cross each other, and arrows that
// pass through unrelated labels.
//
// Detection is a pure function of a frozen [Snapshot] - detectors never
// mutate layout state, and re-running a detector on an unchanged snapshot
// returns an identical conflict list. The three detectors always run in
// the same sequence (text overlap, arrow crossing, arrow through text),
// which is also the priority order the resolver fixes them in.
package conflict
