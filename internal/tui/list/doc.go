// Package listview provides a virtual scrolling list component for Bubble Tea.
//
// Only the rows inside the viewport are rendered. The list owns a focus
// cursor moved with arrow, vim-style (j/k, g/G) and paging keys; callers
// replace the items at any time with SetItems and may move the focus
// programmatically with SetFocused.
package listview
