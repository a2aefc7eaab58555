package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// serverMessage is the envelope for every message sent to a client.
type serverMessage struct {
	Type      string       `json:"type"`
	Payload   interface{}  `json:"payload,omitempty"`
	Gesture   *gestureInfo `json:"gesture,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

type gestureInfo struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// faceStatePayload mirrors gesture.Snapshot on the wire.
type faceStatePayload struct {
	FaceDetected    bool    `json:"face_detected"`
	EyesClosed      bool    `json:"eyes_closed"`
	LeftEyeAR       float64 `json:"left_eye_ar"`
	RightEyeAR      float64 `json:"right_eye_ar"`
	MouthOpen       bool    `json:"mouth_open"`
	MouthAR         float64 `json:"mouth_ar"`
	EyebrowsRaised  bool    `json:"eyebrows_raised"`
	EyebrowPosition float64 `json:"eyebrow_position"`
	HeadTiltAngle   float64 `json:"head_tilt_angle"`
	HeadTiltLeft    bool    `json:"head_tilt_left"`
	HeadTiltRight   bool    `json:"head_tilt_right"`
	HeadTiltCenter  bool    `json:"head_tilt_center"`
}

// clientMessage is the envelope for every message received from a client.
type clientMessage struct {
	Type    string `json:"type"`
	Payload struct {
		Data string `json:"data"`
	} `json:"payload"`
}

// FaceHandler runs gesture detection over a WebSocket connection. Each
// connection gets its own detection session, so concurrent clients never
// share state.
type FaceHandler struct {
	detector   detector.Detector
	thresholds gesture.Thresholds
}

// NewFaceHandler creates a new FaceHandler with the given detector and
// detection thresholds.
func NewFaceHandler(d detector.Detector, t gesture.Thresholds) *FaceHandler {
	return &FaceHandler{detector: d, thresholds: t}
}

// ServeHTTP handles WebSocket upgrade requests and runs the per-connection
// message loop until the client disconnects.
func (h *FaceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	session := gesture.NewSession(h.thresholds)

	log.Printf("session %s connected from %s", sessionID, r.RemoteAddr)
	defer log.Printf("session %s disconnected", sessionID)

	send(conn, serverMessage{
		Type:    "connected",
		Payload: map[string]string{"session_id": sessionID},
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			send(conn, errorMessage("INVALID_JSON", "invalid JSON message"))
			continue
		}

		switch msg.Type {
		case "frame":
			send(conn, h.processFrame(session, msg.Payload.Data))
		case "ping":
			send(conn, serverMessage{Type: "pong"})
		case "reset":
			session.Reset()
			send(conn, serverMessage{Type: "reset_complete"})
		default:
			send(conn, errorMessage("UNKNOWN_TYPE", "unknown message type: "+msg.Type))
		}
	}
}

// processFrame decodes one client frame, runs detection, and builds the
// face_state reply. Frame-local failures produce an error message and leave
// the session untouched.
func (h *FaceHandler) processFrame(session *gesture.Session, data string) serverMessage {
	mat, err := decodeFrame(data)
	if err != nil {
		return errorMessage("DECODE_ERROR", "failed to decode frame")
	}
	defer mat.Close()

	landmarks, err := h.detector.Detect(mat)
	if err != nil {
		log.Printf("detector error: %v", err)
		return errorMessage("DETECTOR_ERROR", "face detection failed")
	}

	snap, event := session.Process(detector.Features(landmarks, time.Now()))

	msg := serverMessage{
		Type: "face_state",
		Payload: faceStatePayload{
			FaceDetected:    snap.FaceDetected,
			EyesClosed:      snap.EyesClosed,
			LeftEyeAR:       snap.LeftEyeAR,
			RightEyeAR:      snap.RightEyeAR,
			MouthOpen:       snap.MouthOpen,
			MouthAR:         snap.MouthAR,
			EyebrowsRaised:  snap.EyebrowsRaised,
			EyebrowPosition: snap.EyebrowPosition,
			HeadTiltAngle:   snap.HeadTiltAngle,
			HeadTiltLeft:    snap.HeadTiltLeft,
			HeadTiltRight:   snap.HeadTiltRight,
			HeadTiltCenter:  snap.HeadTiltCenter,
		},
	}
	if event != nil {
		msg.Gesture = &gestureInfo{Type: string(event.Type), Name: event.Type.Name()}
	}
	return msg
}

func errorMessage(code, message string) serverMessage {
	return serverMessage{
		Type:    "error",
		Payload: errorPayload{Code: code, Message: message},
	}
}

func send(conn *websocket.Conn, msg serverMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("write error: %v", err)
	}
}
