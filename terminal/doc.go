// @focus: #sys { term } #input { mouse }
// Package terminal hosts the mascot in a tcell screen.
//
// Features:
//   - Mouse motion, drag and click reporting published as pointer events
//   - True color (24-bit) and 256-color palette output
//   - Half-block cell canvas flush
//   - Clean terminal restoration on exit/panic
//
// Pointer positions are cell coordinates at the cell centre; the render
// viewport maps them into artwork space using the cell aspect ratio.
package terminal
