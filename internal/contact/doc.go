// Package contact classifies whether a sensor is usefully coupled to the
// body and scores the coupling 0-100 for live feedback.
//
// The camera gate inspects per-frame RGB channel means: blood-perfused
// tissue pressed on a lens sits in a mid brightness band, reflects red far
// more strongly than green or blue, and holds steady frame to frame. The
// amplitude gate used for microphone and accelerometer sources maps windowed
// RMS amplitude between a tuned floor and ceiling.
//
// A Gate carries only a trailing baseline and a short snapshot window, so
// evaluation is O(1) per sample. Sessions consult the gate's grace-window
// verdict to stay in a positioning state until contact is established.
package contact
