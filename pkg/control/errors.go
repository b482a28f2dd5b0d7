package control

import "errors"

var (
	// ErrFieldNotFound signals a value lookup against an id no field carries.
	ErrFieldNotFound = errors.New("control: field not found")
	// ErrNoWidgetID signals a control constructed without a resolvable id:
	// neither a control name nor a named first field was supplied.
	ErrNoWidgetID = errors.New("control: no resolvable widget id")
)
