package server

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "judger.LogicJudge"

// LogicJudgeServer gRPC 服务接口
type LogicJudgeServer interface {
	Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error)
	Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error)
	Health(ctx context.Context, req *HealthRequest) (*HealthResponse, error)
}

// RegisterLogicJudgeServer 注册到 gRPC 服务器
func RegisterLogicJudgeServer(s grpc.ServiceRegistrar, srv LogicJudgeServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LogicJudgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "Execute", Handler: executeHandler},
		{MethodName: "Health", Handler: healthHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "judger.json",
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EvaluateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LogicJudgeServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Evaluate"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LogicJudgeServer).Evaluate(ctx, req.(*EvaluateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LogicJudgeServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Execute"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LogicJudgeServer).Execute(ctx, req.(*ExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func healthHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HealthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LogicJudgeServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Health"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LogicJudgeServer).Health(ctx, req.(*HealthRequest))
	}
	return interceptor(ctx, in, info, handler)
}
