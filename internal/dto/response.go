package dto

// BasicResponse is the server's generic {success,msg} envelope, also used as
// the error body shape on non-2xx responses.
type BasicResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}
