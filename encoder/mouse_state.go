package encoder

// GenerateMousePress records btn as pressed and reports it, unless no
// mouse protocol is active — in which case a wheel press is translated
// into a cursor-key press when mouseWheelMode calls for it, and every
// other event is dropped, per spec.md §4.1.5.
func (e *Encoder) GenerateMousePress(mod Modifier, btn MouseButton, cell CellLocation, pixel MousePixelPosition) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mouseProtocolSet {
		if isWheel(btn) && e.mouseWheelMode != MouseWheelModeDefault {
			return e.emitWheelAsCursorKeyLocked(btn)
		}
		return false
	}

	if !isWheel(btn) && btn != MouseRelease {
		e.pressed[btn] = true
	}

	return e.emitMouseLocked(btn, mod, false, false, cell, pixel)
}

// GenerateMouseRelease clears btn from the pressed set and reports it,
// unless no mouse protocol is active or the active protocol is X10 (which
// ignores releases entirely).
func (e *Encoder) GenerateMouseRelease(mod Modifier, btn MouseButton, cell CellLocation, pixel MousePixelPosition) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mouseProtocolSet {
		return false
	}
	delete(e.pressed, btn)

	if e.mouseProtocol == MouseProtocolX10 {
		return false
	}

	return e.emitMouseLocked(btn, mod, false, true, cell, pixel)
}

// GenerateMouseMove reports cursor motion, as a drag when any button is
// currently pressed. ButtonTracking only reports drags; AnyEventTracking
// reports every move; X10 and NormalTracking report no motion at all.
func (e *Encoder) GenerateMouseMove(mod Modifier, cell CellLocation, pixel MousePixelPosition) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mouseProtocolSet {
		return false
	}

	drag := len(e.pressed) > 0
	motion := drag

	switch e.mouseProtocol {
	case MouseProtocolX10, MouseProtocolNormalTracking:
		return false
	case MouseProtocolButtonTracking:
		if !drag {
			return false
		}
	case MouseProtocolAnyEventTracking:
		// Every move sets the motion bit, buttonless ones included.
		motion = true
	default:
		return false
	}

	return e.emitMouseLocked(reportedMoveButton(e.pressed, drag), mod, motion, false, cell, pixel)
}

func isWheel(btn MouseButton) bool {
	return btn == MouseWheelUp || btn == MouseWheelDown
}

// reportedMoveButton picks which button a motion report attributes the
// event to: the lowest-numbered currently pressed button when dragging, or
// the "no button" marker otherwise.
func reportedMoveButton(pressed map[MouseButton]bool, drag bool) MouseButton {
	if !drag {
		return MouseRelease
	}
	for _, b := range []MouseButton{MouseLeft, MouseMiddle, MouseRight} {
		if pressed[b] {
			return b
		}
	}
	return MouseRelease
}

// emitWheelAsCursorKeyLocked translates a wheel press into the cursor-key
// sequence mouseWheelMode selects, when no mouse protocol is active.
func (e *Encoder) emitWheelAsCursorKeyLocked(btn MouseButton) bool {
	var key Key
	switch btn {
	case MouseWheelUp:
		key = KeyUp
	case MouseWheelDown:
		key = KeyDown
	default:
		return false
	}

	mode := KeyModeNormal
	if e.mouseWheelMode == MouseWheelModeApplicationCursorKeys {
		mode = KeyModeApplication
	}

	e.buf.pending = encodeCursorLike(e.buf.pending, cursorFinal[key], ModNone, mode)
	return true
}

// emitMouseLocked encodes btn under the encoder's current transport and
// appends it, suppressing an exact repeat of the last (position, button,
// press-or-release) triple emitted.
func (e *Encoder) emitMouseLocked(btn MouseButton, mod Modifier, drag, release bool, cell CellLocation, pixel MousePixelPosition) bool {
	legacyBtn := btn
	if release && (e.mouseTransport == MouseTransportDefault || e.mouseTransport == MouseTransportExtended) {
		legacyBtn = MouseRelease
	}

	var next []byte
	var dedupKey int
	switch e.mouseTransport {
	case MouseTransportExtended:
		next = encodeLegacyMouse(e.buf.pending, legacyBtn, mod, drag, cell, true)
		dedupKey = buttonByte(legacyBtn, mod, drag)
	case MouseTransportSGR:
		c := cell.wire()
		next = encodeSGRMouse(e.buf.pending, btn, mod, drag, release, c.Column, c.Line)
		dedupKey = buttonByte(btn, mod, drag)
	case MouseTransportSGRPixels:
		next = encodeSGRMouse(e.buf.pending, btn, mod, drag, release, pixel.X, pixel.Y)
		dedupKey = buttonByte(btn, mod, drag)
	case MouseTransportURXVT:
		next = encodeURXVTMouse(e.buf.pending, btn, mod, drag, cell)
		dedupKey = buttonByte(btn, mod, drag)
	default:
		next = encodeLegacyMouse(e.buf.pending, legacyBtn, mod, drag, cell, false)
		dedupKey = buttonByte(legacyBtn, mod, drag)
	}

	emission := mouseEmission{valid: true, cell: cell, pixel: pixel, button: dedupKey, release: release}
	if e.lastEmitted == emission {
		return false
	}

	e.lastEmitted = emission
	e.buf.pending = next
	return true
}
