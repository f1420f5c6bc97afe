package settings

import (
	"fmt"
	"reflect"
)

// Rule hooks compile small expressions into Leaf behavior. Every engine
// shares one verdict convention so rules stay portable across engines.
//
// Validation verdicts: nil, true, and "" accept the value; false rejects it
// with a generated message; a non-empty string rejects with that message; a
// list of strings rejects with every non-empty message.
//
// Fixup verdicts: nil or a result equal to the input means the value is in
// convention; an object with a "value" key (and optional "messages" list)
// carries an explicit correction; any other result becomes the corrected
// value with a generated message.

func violationFromVerdict(verdict any, engine, rule string) (*Violation, error) {
	switch typed := verdict.(type) {
	case nil:
		return nil, nil
	case bool:
		if typed {
			return nil, nil
		}
		return &Violation{Messages: []string{fmt.Sprintf("value rejected by %s rule %q", engine, rule)}}, nil
	case string:
		if typed == "" {
			return nil, nil
		}
		return &Violation{Messages: []string{typed}}, nil
	case []string:
		return violationFromMessages(typed), nil
	case []any:
		messages := make([]string, 0, len(typed))
		for _, item := range typed {
			message, ok := item.(string)
			if !ok {
				return nil, wrapRuleError(engine, rule, fmt.Errorf("verdict list may contain only strings, got %T", item))
			}
			messages = append(messages, message)
		}
		return violationFromMessages(messages), nil
	default:
		return nil, wrapRuleError(engine, rule, fmt.Errorf("unsupported verdict type %T", verdict))
	}
}

func violationFromMessages(messages []string) *Violation {
	kept := make([]string, 0, len(messages))
	for _, message := range messages {
		if message != "" {
			kept = append(kept, message)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &Violation{Messages: kept}
}

func correctionFromVerdict(verdict, input any, engine, rule string) (*Correction, error) {
	if verdict == nil {
		return nil, nil
	}

	if payload, ok := verdict.(map[string]any); ok {
		value, hasValue := payload["value"]
		if !hasValue {
			return nil, wrapRuleError(engine, rule, fmt.Errorf(`correction object requires a "value" key`))
		}
		if reflect.DeepEqual(value, input) {
			return nil, nil
		}
		messages, err := correctionMessages(payload["messages"], engine, rule)
		if err != nil {
			return nil, err
		}
		if len(messages) == 0 {
			messages = []string{autoCorrectionMessage(engine, rule)}
		}
		return &Correction{Value: value, Messages: messages}, nil
	}

	if reflect.DeepEqual(verdict, input) {
		return nil, nil
	}
	return &Correction{Value: verdict, Messages: []string{autoCorrectionMessage(engine, rule)}}, nil
}

func correctionMessages(raw any, engine, rule string) ([]string, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if typed == "" {
			return nil, nil
		}
		return []string{typed}, nil
	case []string:
		return append([]string{}, typed...), nil
	case []any:
		messages := make([]string, 0, len(typed))
		for _, item := range typed {
			message, ok := item.(string)
			if !ok {
				return nil, wrapRuleError(engine, rule, fmt.Errorf("correction messages may contain only strings, got %T", item))
			}
			messages = append(messages, message)
		}
		return messages, nil
	default:
		return nil, wrapRuleError(engine, rule, fmt.Errorf("unsupported correction messages type %T", raw))
	}
}

func autoCorrectionMessage(engine, rule string) string {
	return fmt.Sprintf("auto-corrected by %s rule %q", engine, rule)
}
