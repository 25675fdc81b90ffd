package ir

import "fmt"

// TypeOfExpr derives the result type of an expression against env, per
// spec.md §4.6 (component G). It returns UnboundTempError for a dangling
// RdTmp and SanityFailureError for any other structural mismatch (e.g. an
// ITE whose arms disagree).
func TypeOfExpr(e Expr, env *TypeEnv) (Type, error) {
	switch x := e.(type) {
	case *ExprGet:
		return x.Ty, nil
	case *ExprGetI:
		return x.Array.ElemType, nil
	case *ExprRdTmp:
		return env.GetType(x.Tmp)
	case *ExprLoad:
		return x.Ty, nil
	case *ExprConst:
		return x.Con.Type(), nil
	case *ExprUnop:
		argTy, err := TypeOfExpr(x.Arg, env)
		if err != nil {
			return TyInvalid, err
		}
		return x.Op.ResultType(argTy), nil
	case *ExprBinop:
		argTy, err := TypeOfExpr(x.Arg1, env)
		if err != nil {
			return TyInvalid, err
		}
		return x.Op.ResultType(argTy), nil
	case *ExprTriop:
		argTy, err := TypeOfExpr(x.Arg2, env)
		if err != nil {
			return TyInvalid, err
		}
		return x.Op.ResultType(argTy), nil
	case *ExprQop:
		argTy, err := TypeOfExpr(x.Arg2, env)
		if err != nil {
			return TyInvalid, err
		}
		return x.Op.ResultType(argTy), nil
	case *ExprITE:
		thenTy, err := TypeOfExpr(x.Then, env)
		if err != nil {
			return TyInvalid, err
		}
		elseTy, err := TypeOfExpr(x.Else, env)
		if err != nil {
			return TyInvalid, err
		}
		if thenTy != elseTy {
			return TyInvalid, &SanityFailureError{Where: "ITE", Reason: fmt.Sprintf("then type %s != else type %s", thenTy, elseTy)}
		}
		return thenTy, nil
	case *ExprCCall:
		return x.RetTy, nil
	case *ExprBinder:
		return TyInvalid, &SanityFailureError{Where: "Binder", Reason: "Binder has no type outside a pattern table"}
	case *ExprVECRET:
		return Ty_V128, nil
	case *ExprGSPTR:
		return Ty_I64, nil
	default:
		panic(fmt.Sprintf("BUG: unhandled Expr variant %T in TypeOfExpr", e))
	}
}

// TypeOfStmt derives the type touched by a statement's write, where
// applicable; NoOp, Put, PutI, Store, StoreG, AbiHint, MBE carry no temp
// write and return TyInvalid, nil.
func TypeOfStmt(s Stmt, env *TypeEnv) (Type, error) {
	switch x := s.(type) {
	case *StmtWrTmp:
		return TypeOfExpr(x.Data, env)
	case *StmtLoadG:
		return env.GetType(x.Dst)
	case *StmtCAS:
		return env.GetType(x.OldLo)
	case *StmtLLSC:
		return env.GetType(x.Result)
	case *StmtDirty:
		if x.Result == TempInvalid {
			return TyInvalid, nil
		}
		return env.GetType(x.Result)
	default:
		return TyInvalid, nil
	}
}
