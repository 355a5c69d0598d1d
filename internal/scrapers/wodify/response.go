package wodify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// a response is only ever traversed along a fixed path of object keys,
// each operation declares where its error indicator and its result live.
type responseShape struct {
	checkError errorResolver
	result     []string
}

type errorResolver func(doc json.RawMessage) (RequestError, error)

var responseShapes = map[Operation]responseShape{
	OP_LOGIN: {
		checkError: requestErrorAt("data", "Response", "Error"),
		result:     []string{"data", "Response"},
	},
	OP_LOCATIONS_PROGRAMS: {
		checkError: messageAt("data", "ErrorMessage"),
		result:     []string{"data", "Locations", "List"},
	},
	OP_GET_CLASSES: {
		checkError: requestErrorAt("data", "Response", "Error"),
		result:     []string{"data", "Response", "ResponseClassList", "Class", "List"},
	},
	OP_GET_ALL_WORKOUT_DATA: {
		checkError: requestErrorAt("data", "Response", "ResponseWorkout", "WorkoutError"),
		result:     []string{"data", "Response", "ResponseWorkout", "ResponseWorkoutActions", "WorkoutComponents", "List"},
	},
	OP_GET_CLASS_ACCESSES: {
		checkError: requestErrorAt("data", "Response", "Error"),
		result:     []string{"data", "Response", "ResponseClassAccess"},
	},
	OP_CREATE_CLASS_RESERVATION: {
		checkError: requestErrorAt("data", "Response", "Error_Schedule"),
		result:     []string{"data", "Response"},
	},
	OP_SIGN_IN_CLASS: {
		checkError: requestErrorAt("data", "Response", "Error_Schedule"),
		result:     []string{"data", "Response"},
	},
	OP_CANCEL_CLASS_RESERVATION: {
		checkError: requestErrorAt("data", "Response", "Error_Schedule"),
		result:     []string{"data", "Response"},
	},
	OP_GET_CUSTOMER_DATE_TIME: {
		checkError: trusted,
		result:     []string{"data", "Response"},
	},
}

func requestErrorAt(path ...string) errorResolver {
	return func(doc json.RawMessage) (RequestError, error) {
		return decodeAt[RequestError](doc, path...)
	}
}

// messageAt treats a non-empty string at path as the error message.
func messageAt(path ...string) errorResolver {
	return func(doc json.RawMessage) (RequestError, error) {
		msg, err := decodeAt[string](doc, path...)
		if err != nil {
			return RequestError{}, err
		}
		return RequestError{
			HasError:     msg != "",
			ErrorMessage: msg,
		}, nil
	}
}

func trusted(json.RawMessage) (RequestError, error) {
	return RequestError{}, nil
}

func formatPath(path []string) string {
	if len(path) == 0 {
		return "$"
	}
	return strings.Join(path, ".")
}

// lookup walks doc along path, a missing key or a null value is an error.
func lookup(doc json.RawMessage, path ...string) (json.RawMessage, error) {
	current := doc
	for i, key := range path {
		var object map[string]json.RawMessage
		err := json.Unmarshal(current, &object)
		if err != nil {
			return nil, fmt.Errorf("%s: expected object: %w", formatPath(path[:i]), err)
		}
		next, ok := object[key]
		if !ok || isNull(next) {
			return nil, fmt.Errorf("%s: %w", formatPath(path[:i+1]), errMissingField)
		}
		current = next
	}
	return current, nil
}

func isNull(value json.RawMessage) bool {
	return strings.TrimSpace(string(value)) == "null"
}

func decodeAt[T any](doc json.RawMessage, path ...string) (T, error) {
	var out T
	raw, err := lookup(doc, path...)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	if err != nil {
		return out, fmt.Errorf("%s: %w", formatPath(path), err)
	}
	return out, nil
}

// checkResponse parses the body of an operation's response and applies the
// operation's error check, the returned document is safe to project from.
func checkResponse(op Operation, status int, body []byte) (json.RawMessage, error) {
	shape, ok := responseShapes[op]
	if !ok {
		return nil, &ParseError{Operation: op, Status: status, Err: fmt.Errorf("no response shape for operation")}
	}
	if !json.Valid(body) {
		return nil, &ParseError{Operation: op, Status: status, Err: fmt.Errorf("invalid json body: %q", truncate(string(body), 128))}
	}
	doc := json.RawMessage(body)

	reqErr, err := shape.checkError(doc)
	if err != nil {
		return nil, &ParseError{Operation: op, Status: status, Err: err}
	}
	if reqErr.HasError {
		return nil, &DomainError{Operation: op, Message: reqErr.ErrorMessage}
	}
	return doc, nil
}

// project decodes the operation's result sub-object out of a checked document.
func project[T any](op Operation, status int, doc json.RawMessage) (T, error) {
	out, err := decodeAt[T](doc, responseShapes[op].result...)
	if err != nil {
		return out, &ParseError{Operation: op, Status: status, Err: err}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
