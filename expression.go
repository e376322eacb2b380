package puppet

import (
	"encoding/json"
	"fmt"
)

// ExpressionParameter is one parameter change of an expression.
type ExpressionParameter struct {
	ID    ParameterID
	Blend BlendType
	Value float64
}

// Expression is a static pose offset: a set of parameter changes blended by
// Additive, Multiply or Overwrite. Expressions have no duration; they stay
// applied until faded out or superseded.
type Expression struct {
	playback

	params []ExpressionParameter
}

var _ Playable = (*Expression)(nil)

// NewExpression creates an expression from its parameters and fades.
// Negative fades default to 1 second.
func NewExpression(params []ExpressionParameter, fadeIn, fadeOut float64) *Expression {
	e := &Expression{
		playback: newPlayback(),
		params:   append([]ExpressionParameter(nil), params...),
	}
	if fadeIn >= 0 {
		e.fadeInSeconds = fadeIn
	}
	if fadeOut >= 0 {
		e.fadeOutSeconds = fadeOut
	}
	return e
}

type expressionFile struct {
	Type        string   `json:"Type"`
	FadeInTime  *float64 `json:"FadeInTime"`
	FadeOutTime *float64 `json:"FadeOutTime"`
	Parameters  []struct {
		ID    string  `json:"Id"`
		Value float64 `json:"Value"`
		Blend string  `json:"Blend"`
	} `json:"Parameters"`
}

func parseBlend(s string) (BlendType, bool) {
	switch s {
	case "Add":
		return BlendAdditive, true
	case "Multiply":
		return BlendMultiply, true
	case "Overwrite":
		return BlendOverwrite, true
	}
	return BlendAdditive, false
}

// LoadExpression parses an expression file. A missing or unknown blend is
// read as Additive and logged as a warning.
func LoadExpression(jsonData []byte) (*Expression, error) {
	var f expressionFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("puppet: %w: %w", ErrInvalidExpression, err)
	}
	params := make([]ExpressionParameter, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		if p.ID == "" {
			return nil, fmt.Errorf("puppet: %w: parameter without id", ErrInvalidExpression)
		}
		blend, ok := parseBlend(p.Blend)
		if !ok {
			Logger().Warn("puppet: expression blend defaulted to Add", "id", p.ID, "blend", p.Blend)
		}
		params = append(params, ExpressionParameter{ID: ParameterID(p.ID), Blend: blend, Value: p.Value})
	}
	return NewExpression(params, metaFade(f.FadeInTime), metaFade(f.FadeOutTime)), nil
}

// Parameters returns the expression's parameter changes.
// The returned slice MUST NOT be mutated.
func (e *Expression) Parameters() []ExpressionParameter { return e.params }

// Duration implements Playable. Expressions are unbounded.
func (e *Expression) Duration() float64 { return -1 }

// FiredEvents implements Playable. Expressions carry no events.
func (e *Expression) FiredEvents(dst []string, _, _ float64) []string { return dst }

// Release implements Playable.
func (e *Expression) Release() {
	e.onBegan = nil
	e.onFinished = nil
	e.onLoop = nil
}

// doUpdateParameters applies the expression directly to the model. Used
// when an expression is played by a plain QueueManager.
func (e *Expression) doUpdateParameters(model Model, _, fadeWeight float64, _ *QueueEntry) {
	for _, p := range e.params {
		idx := model.ParameterIndex(p.ID)
		if idx < 0 {
			continue
		}
		switch p.Blend {
		case BlendAdditive:
			model.AddParameterValue(idx, p.Value, fadeWeight)
		case BlendMultiply:
			model.MultiplyParameterValue(idx, p.Value, fadeWeight)
		case BlendOverwrite:
			model.SetParameterValue(idx, p.Value, fadeWeight)
		}
	}
}

func (e *Expression) lookup(id ParameterID) (ExpressionParameter, bool) {
	for _, p := range e.params {
		if p.ID == id {
			return p, true
		}
	}
	return ExpressionParameter{}, false
}

// expressionValue accumulates the layered contribution of every playing
// expression to one parameter.
type expressionValue struct {
	id        ParameterID
	index     int
	additive  float64
	multiply  float64
	overwrite float64
}

func lerp(from, to, w float64) float64 {
	return from*(1-w) + to*w
}

// calculateExpressionParameters folds this expression, playing at position
// order in the manager with fade weight w, into the accumulators. The first
// expression assigns outright; later ones cross-fade over what came before.
// Parameters the expression does not touch decay toward neutral.
func (e *Expression) calculateExpressionParameters(model Model, values []expressionValue, order int, w float64) {
	for i := range values {
		v := &values[i]
		current := model.ParameterValue(v.index)

		add, mul, over := 0.0, 1.0, current
		if p, ok := e.lookup(v.id); ok {
			switch p.Blend {
			case BlendAdditive:
				add = p.Value
			case BlendMultiply:
				mul = p.Value
			case BlendOverwrite:
				over = p.Value
			}
		}

		if order == 0 {
			v.additive, v.multiply, v.overwrite = add, mul, over
			continue
		}
		v.additive = lerp(v.additive, add, w)
		v.multiply = lerp(v.multiply, mul, w)
		v.overwrite = lerp(v.overwrite, over, w)
	}
}
