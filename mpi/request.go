package mpi

import "context"

// Request tracks an in-flight Issend. The zero value is not usable;
// obtain one from Communicator.Issend.
type Request struct {
	done chan error
}

func newRequest() *Request {
	return &Request{done: make(chan error, 1)}
}

func (r *Request) complete(err error) {
	r.done <- err
}

// Wait blocks until the destination has posted a matching receive (or
// the communicator is closed first, in which case Wait returns the
// close-time error).
func (r *Request) Wait() error {
	return <-r.done
}

// Test reports whether Wait would return immediately, without blocking.
func (r *Request) Test() (bool, error) {
	select {
	case err := <-r.done:
		r.done <- err // put it back so a later Wait/Test still observes it
		return true, err
	default:
		return false, nil
	}
}

// recvResult is the outcome of a completed IRecv.
type recvResult struct {
	data   []byte
	status Status
	err    error
}

// RecvRequest tracks an in-flight IRecv: unlike Recv, IRecv returns
// immediately with a pollable handle instead of blocking the caller
// until a matching message arrives.
type RecvRequest struct {
	done chan recvResult
}

func newRecvRequest() *RecvRequest {
	return &RecvRequest{done: make(chan recvResult, 1)}
}

func (r *RecvRequest) complete(data []byte, status Status, err error) {
	r.done <- recvResult{data: data, status: status, err: err}
}

// Wait blocks until the matching message arrives, or ctx is done,
// returning the same (data, Status, error) a direct Recv would have.
func (r *RecvRequest) Wait(ctx context.Context) ([]byte, Status, error) {
	select {
	case res := <-r.done:
		return res.data, res.status, res.err
	case <-ctx.Done():
		return nil, Status{}, ctx.Err()
	}
}

// Test reports whether Wait would return immediately, without blocking;
// if so it also returns the completed message.
func (r *RecvRequest) Test() (bool, []byte, Status, error) {
	select {
	case res := <-r.done:
		r.done <- res // put it back so a later Wait/Test still observes it
		return true, res.data, res.status, res.err
	default:
		return false, nil, Status{}, nil
	}
}
