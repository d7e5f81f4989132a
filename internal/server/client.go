package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client LogicJudge 客户端
type Client struct {
	conn *grpc.ClientConn
}

// Dial 建立到 addr 的连接，opts 追加在默认选项之后
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	out := new(EvaluateResponse)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/Evaluate", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	out := new(ExecuteResponse)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/Execute", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	out := new(HealthResponse)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/Health", &HealthRequest{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
