package ir

import "fmt"

// CheckSanity walks an IRSB and verifies the structural invariants from
// spec.md §4.7: every temp in Tyenv has a plausible (non-Invalid) type;
// every RdTmp refers to a temp declared in Tyenv and already written earlier
// in program order (straight-line SSA, def-before-use); every Temp is the
// target of at most one WrTmp; WrTmp's declared type matches the type of
// its RHS, and when requireFlatness is set, that RHS is a bare
// Const/RdTmp/Get; CAS/LLSC/Dirty results are in range; the block's Next is
// non-null and types as exactly guestWordType; every Exit's Dst is a Const
// of that same guestWordType. where labels the block being checked (used as
// a location prefix in any returned error). It returns the first violation
// found as a *SanityFailureError.
func CheckSanity(b *IRSB, where string, requireFlatness bool, guestWordType Type) error {
	for i := 0; i < b.Tyenv.Count(); i++ {
		ty, err := b.Tyenv.GetType(Temp(i))
		if err != nil {
			return &SanityFailureError{Where: where, Reason: err.Error()}
		}
		if ty == TyInvalid {
			return &SanityFailureError{Where: where, Reason: fmt.Sprintf("t%d has Invalid type", i)}
		}
	}

	defined := make(map[Temp]bool, b.Tyenv.Count())

	checkExpr := func(loc string, e Expr) error {
		return walkExprSanity(loc, e, defined)
	}

	for i, st := range b.Stmts {
		loc := fmt.Sprintf("%s/stmt[%d]", where, i)
		switch x := st.(type) {
		case *StmtNoOp:
		case *StmtIMark:
		case *StmtAbiHint:
			if err := checkExpr(loc, x.Base); err != nil {
				return err
			}
			if err := checkExpr(loc, x.NextIP); err != nil {
				return err
			}
		case *StmtPut:
			if err := checkExpr(loc, x.Data); err != nil {
				return err
			}
		case *StmtPutI:
			if err := checkExpr(loc, x.Ix); err != nil {
				return err
			}
			if err := checkExpr(loc, x.Data); err != nil {
				return err
			}
		case *StmtWrTmp:
			if err := checkExpr(loc, x.Data); err != nil {
				return err
			}
			if requireFlatness {
				switch x.Data.(type) {
				case *ExprConst, *ExprRdTmp, *ExprGet:
				default:
					return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("WrTmp RHS is %T, not flat (Const/RdTmp/Get) with requireFlatness set", x.Data)}
				}
			}
			declTy, err := b.Tyenv.GetType(x.Tmp)
			if err != nil {
				return &SanityFailureError{Where: loc, Reason: err.Error()}
			}
			rhsTy, err := TypeOfExpr(x.Data, b.Tyenv)
			if err != nil {
				return &SanityFailureError{Where: loc, Reason: err.Error()}
			}
			if declTy != rhsTy {
				return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("WrTmp(%s) declared %s, RHS has type %s", x.Tmp, declTy, rhsTy)}
			}
			if defined[x.Tmp] {
				return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("temp %s written more than once", x.Tmp)}
			}
			defined[x.Tmp] = true
		case *StmtStore:
			if err := checkExpr(loc, x.Addr); err != nil {
				return err
			}
			if err := checkExpr(loc, x.Data); err != nil {
				return err
			}
		case *StmtLoadG:
			if err := checkExpr(loc, x.Addr); err != nil {
				return err
			}
			if err := checkExpr(loc, x.AltValue); err != nil {
				return err
			}
			if err := checkExpr(loc, x.Guard); err != nil {
				return err
			}
			if _, err := b.Tyenv.GetType(x.Dst); err != nil {
				return &SanityFailureError{Where: loc, Reason: err.Error()}
			}
			if defined[x.Dst] {
				return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("temp %s written more than once", x.Dst)}
			}
			defined[x.Dst] = true
		case *StmtStoreG:
			if err := checkExpr(loc, x.Addr); err != nil {
				return err
			}
			if err := checkExpr(loc, x.Data); err != nil {
				return err
			}
			if err := checkExpr(loc, x.Guard); err != nil {
				return err
			}
		case *StmtCAS:
			if err := checkExpr(loc, x.Addr); err != nil {
				return err
			}
			if err := checkExpr(loc, x.ExpdLo); err != nil {
				return err
			}
			if err := checkExpr(loc, x.DataLo); err != nil {
				return err
			}
			if x.OldHi != TempInvalid {
				if err := checkExpr(loc, x.ExpdHi); err != nil {
					return err
				}
				if err := checkExpr(loc, x.DataHi); err != nil {
					return err
				}
				if _, err := b.Tyenv.GetType(x.OldHi); err != nil {
					return &SanityFailureError{Where: loc, Reason: err.Error()}
				}
				defined[x.OldHi] = true
			}
			if _, err := b.Tyenv.GetType(x.OldLo); err != nil {
				return &SanityFailureError{Where: loc, Reason: err.Error()}
			}
			defined[x.OldLo] = true
		case *StmtLLSC:
			if err := checkExpr(loc, x.Addr); err != nil {
				return err
			}
			if x.StoreData != nil {
				if err := checkExpr(loc, x.StoreData); err != nil {
					return err
				}
			}
			if _, err := b.Tyenv.GetType(x.Result); err != nil {
				return &SanityFailureError{Where: loc, Reason: err.Error()}
			}
			defined[x.Result] = true
		case *StmtDirty:
			if err := checkExpr(loc, x.Guard); err != nil {
				return err
			}
			for _, a := range x.Args {
				if err := checkExpr(loc, a); err != nil {
					return err
				}
			}
			if x.Result != TempInvalid {
				if _, err := b.Tyenv.GetType(x.Result); err != nil {
					return &SanityFailureError{Where: loc, Reason: err.Error()}
				}
				defined[x.Result] = true
			}
		case *StmtMBE:
		case *StmtExit:
			if err := checkExpr(loc, x.Guard); err != nil {
				return err
			}
			guardTy, err := TypeOfExpr(x.Guard, b.Tyenv)
			if err != nil {
				return &SanityFailureError{Where: loc, Reason: err.Error()}
			}
			if guardTy != Ty_I1 {
				return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("Exit guard has type %s, want I1", guardTy)}
			}
			if x.Dst == nil || x.Dst.Type() != guestWordType {
				return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("Exit.Dst has type %v, want guestWordType %s", x.Dst, guestWordType)}
			}
		default:
			return &SanityFailureError{Where: loc, Reason: fmt.Sprintf("unrecognized statement variant %T", st)}
		}
	}

	if b.Next == nil {
		return &SanityFailureError{Where: where + "/Next", Reason: "block has no terminating expression"}
	}
	if err := checkExpr(where+"/Next", b.Next); err != nil {
		return err
	}
	nextTy, err := TypeOfExpr(b.Next, b.Tyenv)
	if err != nil {
		return &SanityFailureError{Where: where + "/Next", Reason: err.Error()}
	}
	if nextTy != guestWordType {
		return &SanityFailureError{Where: where + "/Next", Reason: fmt.Sprintf("Next has type %s, want guestWordType %s", nextTy, guestWordType)}
	}
	if b.Jk == JumpInvalid {
		return &SanityFailureError{Where: where + "/Next", Reason: "block jump kind is Ijk_INVALID"}
	}
	return nil
}

func walkExprSanity(where string, e Expr, defined map[Temp]bool) error {
	if e == nil {
		return &SanityFailureError{Where: where, Reason: "nil expression"}
	}
	switch x := e.(type) {
	case *ExprGet, *ExprConst, *ExprBinder, *ExprVECRET, *ExprGSPTR:
		return nil
	case *ExprGetI:
		return walkExprSanity(where, x.Ix, defined)
	case *ExprRdTmp:
		if !defined[x.Tmp] {
			return &SanityFailureError{Where: where, Reason: fmt.Sprintf("%s used before being written", x.Tmp)}
		}
		return nil
	case *ExprLoad:
		return walkExprSanity(where, x.Addr, defined)
	case *ExprUnop:
		return walkExprSanity(where, x.Arg, defined)
	case *ExprBinop:
		if err := walkExprSanity(where, x.Arg1, defined); err != nil {
			return err
		}
		return walkExprSanity(where, x.Arg2, defined)
	case *ExprTriop:
		for _, a := range []Expr{x.Arg1, x.Arg2, x.Arg3} {
			if err := walkExprSanity(where, a, defined); err != nil {
				return err
			}
		}
		return nil
	case *ExprQop:
		for _, a := range []Expr{x.Arg1, x.Arg2, x.Arg3, x.Arg4} {
			if err := walkExprSanity(where, a, defined); err != nil {
				return err
			}
		}
		return nil
	case *ExprITE:
		for _, a := range []Expr{x.Cond, x.Then, x.Else} {
			if err := walkExprSanity(where, a, defined); err != nil {
				return err
			}
		}
		return nil
	case *ExprCCall:
		for _, a := range x.Args {
			if err := walkExprSanity(where, a, defined); err != nil {
				return err
			}
		}
		return nil
	default:
		return &SanityFailureError{Where: where, Reason: fmt.Sprintf("unrecognized expression variant %T", e)}
	}
}
