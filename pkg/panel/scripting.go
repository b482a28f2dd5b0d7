package panel

import (
	"context"
	"strings"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/frame"
)

const (
	ControlAddScript     = "add-content-script"
	ControlRemoveScript  = "remove-content-script"
	ControlScriptState   = "content-script-state"
	ControlExecuteScript = "execute-script"
	ControlClearData     = "clear-data"

	FieldScriptName     = "script-name"
	FieldScriptMatches  = "script-matches"
	FieldScriptCode     = "script-code"
	FieldScriptRunAt    = "script-run-at"
	FieldRemoveNames    = "script-remove-names"
	FieldScriptNames    = "script-names"
	FieldExecuteCode    = "execute-code"
	FieldExecuteResult  = "execute-result"
	FieldClearCache     = "clear-cache"
	FieldClearCookies   = "clear-cookies"
	FieldClearLocal     = "clear-local-storage"
	FieldClearSession   = "clear-session-data"
)

func (c *Controller) buildScriptingGroup() (*control.Group, error) {
	supportsScripts := c.host.Supports(frame.CapContentScripts)
	supportsExecute := c.host.Supports(frame.CapExecuteScript)
	if !supportsScripts && !supportsExecute {
		return nil, nil
	}

	group := control.NewGroup("Scripting", control.Collapsed())

	if supportsScripts {
		add, err := control.New(ControlAddScript,
			[]control.Field{
				{Name: "name", ID: FieldScriptName, Type: control.FieldTypeText, Label: "name"},
				{Name: "matches", ID: FieldScriptMatches, Type: control.FieldTypeText, Label: "match patterns (comma separated)", Value: "https://*/*"},
				{Name: "runAt", ID: FieldScriptRunAt, Type: control.FieldTypeSelect, Label: "run at", Value: "document_idle", Options: []string{"document_start", "document_end", "document_idle"}},
				{Name: "code", ID: FieldScriptCode, Type: control.FieldTypeTextArea, Label: "code"},
			},
			control.WithButtonText("Add Content Script"),
			control.WithLogger(c.log.Logger),
			control.WithHandler(c.guard(frame.CapContentScripts, c.handleAddContentScript)),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, add); err != nil {
			return nil, err
		}

		remove, err := control.New(ControlRemoveScript,
			[]control.Field{
				{Name: "names", ID: FieldRemoveNames, Type: control.FieldTypeText, Label: "names (comma separated)"},
			},
			control.WithButtonText("Remove Content Scripts"),
			control.WithLogger(c.log.Logger),
			control.WithHandler(c.guard(frame.CapContentScripts, func(ctx context.Context, ctrl *control.Control) error {
				value, err := ctrl.GetFieldValue(ctx, FieldRemoveNames)
				if err != nil {
					return err
				}
				names := splitList(value.Text)
				if len(names) == 0 {
					c.log.Warn("remove content scripts: no names given")
					return nil
				}
				return c.host.RemoveContentScripts(ctx, names)
			})),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, remove); err != nil {
			return nil, err
		}

		installed, err := control.New(ControlScriptState,
			[]control.Field{
				{Name: "installed", ID: FieldScriptNames, Type: control.FieldTypeDiv, Label: "installed scripts"},
			},
			control.EventOnly(),
			control.WithLogger(c.log.Logger),
		)
		if err != nil {
			return nil, err
		}
		installed.SetRefresher(func(ctx context.Context, ctrl *control.Control) error {
			names := c.host.ContentScriptNames()
			return ctrl.UpdateFieldValue(ctx, FieldScriptNames, control.TextValue(strings.Join(names, ", ")))
		})
		if err := c.register(group, installed); err != nil {
			return nil, err
		}
	}

	if supportsExecute {
		execute, err := control.New(ControlExecuteScript,
			[]control.Field{
				{Name: "code", ID: FieldExecuteCode, Type: control.FieldTypeTextArea, Label: "code"},
				{Name: "result", ID: FieldExecuteResult, Type: control.FieldTypeDiv, Label: "result"},
			},
			control.WithButtonText("Execute Script"),
			control.WithLogger(c.log.Logger),
			control.WithHandler(c.guard(frame.CapExecuteScript, func(ctx context.Context, ctrl *control.Control) error {
				value, err := ctrl.GetFieldValue(ctx, FieldExecuteCode)
				if err != nil {
					return err
				}
				result, err := c.host.ExecuteScript(ctx, value.Text)
				if err != nil {
					return err
				}
				return ctrl.UpdateFieldValue(ctx, FieldExecuteResult, control.TextValue(result))
			})),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, execute); err != nil {
			return nil, err
		}
	}

	return group, nil
}

func (c *Controller) handleAddContentScript(ctx context.Context, ctrl *control.Control) error {
	name, err := ctrl.GetFieldValue(ctx, FieldScriptName)
	if err != nil {
		return err
	}
	matches, err := ctrl.GetFieldValue(ctx, FieldScriptMatches)
	if err != nil {
		return err
	}
	runAt, err := ctrl.GetFieldValue(ctx, FieldScriptRunAt)
	if err != nil {
		return err
	}
	code, err := ctrl.GetFieldValue(ctx, FieldScriptCode)
	if err != nil {
		return err
	}

	if strings.TrimSpace(name.Text) == "" {
		c.log.Warn("add content script: name is required")
		return nil
	}

	script := frame.ContentScript{
		Name:    strings.TrimSpace(name.Text),
		Matches: splitList(matches.Text),
		Code:    code.Text,
		RunAt:   runAt.Text,
	}
	return c.host.AddContentScripts(ctx, []frame.ContentScript{script})
}

func (c *Controller) buildDataGroup() (*control.Group, error) {
	if !c.host.Supports(frame.CapClearData) {
		return nil, nil
	}

	group := control.NewGroup("Site Data", control.Collapsed())

	clear, err := control.New(ControlClearData,
		[]control.Field{
			{Name: "cache", ID: FieldClearCache, Type: control.FieldTypeCheckbox, Label: "cache", Checked: true},
			{Name: "cookies", ID: FieldClearCookies, Type: control.FieldTypeCheckbox, Label: "cookies"},
			{Name: "localStorage", ID: FieldClearLocal, Type: control.FieldTypeCheckbox, Label: "local storage"},
			{Name: "sessionData", ID: FieldClearSession, Type: control.FieldTypeCheckbox, Label: "session data"},
		},
		control.WithButtonText("Clear Data"),
		control.WithLogger(c.log.Logger),
		control.WithHandler(c.guard(frame.CapClearData, func(ctx context.Context, ctrl *control.Control) error {
			opts := frame.ClearDataOptions{}
			reads := []struct {
				id  string
				dst *bool
			}{
				{FieldClearCache, &opts.Cache},
				{FieldClearCookies, &opts.Cookies},
				{FieldClearLocal, &opts.LocalStorage},
				{FieldClearSession, &opts.SessionData},
			}
			for _, read := range reads {
				value, err := ctrl.GetFieldValue(ctx, read.id)
				if err != nil {
					return err
				}
				*read.dst = value.Bool
			}
			return c.host.ClearData(ctx, opts)
		})),
	)
	if err != nil {
		return nil, err
	}
	if err := c.register(group, clear); err != nil {
		return nil, err
	}

	return group, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
