// Package control implements the high-level quadrotor position controller.
//
// The controller inverts the differentially flat quadrotor dynamics, subject
// to rotor drag, to turn one reference trajectory point into the attitude,
// collective thrust, body rate and angular acceleration commands the
// inner-loop controller consumes:
//
//	pc := control.New(control.DefaultConfig())
//	cmd := pc.Run(stateEstimate, referencePoint)
//
// The computation is a pure function of its inputs: no state survives a
// cycle, and every geometric degeneracy (zero reference acceleration, heading
// axis aligned with the thrust axis) resolves to a deterministic fallback
// frame instead of an error. See [ComputeReferenceInputs] for the inversion
// itself and [AxisStatus] for the fallback taxonomy.
//
// References:
//   - Faessler, Franchi, Scaramuzza: Differential Flatness of Quadrotor
//     Dynamics Subject to Rotor Drag for Accurate Tracking of High-Speed
//     Trajectories. https://arxiv.org/pdf/1712.02402.pdf
//   - Faessler, Falanga, Scaramuzza: Thrust Mixing, Saturation, and
//     Body-Rate Control for Accurate Aggressive Quadrotor Flight.
package control
