// Package titlebar adds the standard title bar to a display: a group across
// the top of the canvas holding shadow rectangles, a tooltip button, the
// centered title label, a help button and a close button.
package titlebar
