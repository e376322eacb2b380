// Package puppet is the animation core of a parametric 2D puppet: a rig
// whose pose is a set of named scalar parameters (head angle, eye openness,
// mouth shape) that a renderer turns into deformed geometry.
//
// Puppet evaluates keyframed motion clips, layers expressions, blends
// overlapping clips with eased fades, smooths pointer input into gaze and
// adds the procedural layers every live character needs: blinking,
// breathing and lip sync. Rendering is out of scope; any type implementing
// [Model] can be animated.
//
// # Quick start
//
// Build a [ParameterStore], wrap it in a [Character], and call
// [Character.Update] once per frame:
//
//	model := puppet.NewParameterStore(
//		puppet.ParameterDef{ID: puppet.ParamAngleX, Min: -30, Max: 30},
//		puppet.ParameterDef{ID: puppet.ParamEyeLOpen, Min: 0, Max: 1, Default: 1},
//	)
//	ch := puppet.NewCharacter(model, puppet.DefaultCharacterConfig())
//
//	idle, err := puppet.LoadMotion(idleJSON, puppet.DefaultMotionConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	ch.StartMotion(idle, puppet.PriorityIdle)
//
//	for {
//		ch.Update(1.0 / 60)
//		draw(model)
//	}
//
// # Layers
//
// Each [Character.Update] restores the pose saved after the previous frame's
// motions, then applies in order: the [MotionManager], automatic [EyeBlink]
// (only when no motion ran), the [ExpressionManager], drag gaze through a
// [TargetPoint], [Breath], [LipSync] and any [ParameterTween].
//
// The managers can also be used on their own. A [QueueManager] plays any
// number of [Playable] clips, cross-fading a newly started clip over the
// ones it replaces. [MotionManager] adds a priority gate and
// [ExpressionManager] layers expressions with Additive, Multiply and
// Overwrite blending.
//
// # Assets
//
// [LoadMotion] reads keyframed clips and [LoadExpression] reads expression
// files, both JSON. [LoadScript] reads playback scripts that drive a
// Character frame by frame for reproducible tests.
//
// # Logging
//
// Puppet is silent by default. Install a [log/slog] logger with
// [SetLogger] to see asset warnings and, in debug mode, per-frame timings.
//
// ECS integration lives in puppet/ecs (a [Donburi] adapter). A runnable
// viewer built on [Ebitengine] lives in examples/viewer.
//
// [Donburi]: https://github.com/yohamta/donburi
// [Ebitengine]: https://ebitengine.org
package puppet
